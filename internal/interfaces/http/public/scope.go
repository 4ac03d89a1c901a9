package public

import (
	"context"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sngm3741/survey-terminal-services/api/internal/interfaces/http/common"
	"github.com/sngm3741/survey-terminal-services/api/internal/public/domain"
)

// scopeError carries the HTTP status a failed scope resolution maps to.
type scopeError struct {
	status  int
	message string
}

func (e *scopeError) Error() string {
	return e.message
}

// resolveScope はトークンの subject(クライアント ID)から回答コンテキスト
// (端末・ドメイン・アクティブアンケート)を解決する。
func (h *Handler) resolveScope(ctx context.Context, user common.AuthenticatedUser) (domain.ClientContext, error) {
	client, err := h.clients.FindByID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.ClientContext{}, &scopeError{http.StatusUnauthorized, "端末が登録されていません"}
		}
		return domain.ClientContext{}, err
	}
	if client.Domain == "" {
		return domain.ClientContext{}, &scopeError{http.StatusConflict, "端末がどのドメインにも所属していません"}
	}

	owner, err := h.domains.FindByID(ctx, client.Domain)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.ClientContext{}, &scopeError{http.StatusConflict, "端末の所属ドメインが見つかりません"}
		}
		return domain.ClientContext{}, err
	}
	if owner.ActiveSurvey == "" {
		return domain.ClientContext{}, &scopeError{http.StatusConflict, "ドメインにアクティブなアンケートがありません"}
	}

	survey, err := h.surveys.FindByID(ctx, owner.ActiveSurvey)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.ClientContext{}, &scopeError{http.StatusConflict, "アクティブなアンケートが見つかりません"}
		}
		return domain.ClientContext{}, err
	}

	return domain.ClientContext{Survey: *survey, Domain: *owner, Client: *client}, nil
}

// writeScopeError maps scope resolution failures onto HTTP responses.
func (h *Handler) writeScopeError(w http.ResponseWriter, err error) {
	var scopeErr *scopeError
	if errors.As(err, &scopeErr) {
		common.WriteJSON(h.logger, w, scopeErr.status, map[string]string{"error": scopeErr.message})
		return
	}
	if h.logger != nil {
		h.logger.Printf("回答コンテキストの解決に失敗: %v", err)
	}
	common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "回答コンテキストの解決に失敗しました"})
}
