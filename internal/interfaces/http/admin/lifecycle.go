package admin

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sngm3741/survey-terminal-services/api/internal/interfaces/http/common"
)

// surveyDeleteHandler はアンケートを質問・バージョンごと削除する。
// 削除イベントが回答エンジンへ伝播し、対応するキャッシュ枝が刈り取られる。
func (h *Handler) surveyDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := h.lifecycle.DeleteSurvey(r.Context(), id); err != nil {
			h.writeLifecycleError(w, "アンケート", err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

func (h *Handler) domainDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := h.lifecycle.DeleteDomain(r.Context(), id); err != nil {
			h.writeLifecycleError(w, "ドメイン", err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

func (h *Handler) clientDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := h.lifecycle.DeleteClient(r.Context(), id); err != nil {
			h.writeLifecycleError(w, "端末", err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

// domainActiveSurveyHandler reassigns (or clears) a domain's active survey.
func (h *Handler) domainActiveSurveyHandler() http.HandlerFunc {
	type request struct {
		ActiveSurvey string `json:"activeSurvey"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "リクエストボディを解釈できません"})
			return
		}

		updated, err := h.lifecycle.SetActiveSurvey(r.Context(), id, req.ActiveSurvey)
		if err != nil {
			h.writeLifecycleError(w, "ドメイン", err)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{
			"status": "updated",
			"domain": map[string]string{
				"id":           updated.ID,
				"name":         updated.Name,
				"activeSurvey": updated.ActiveSurvey,
			},
		})
	}
}

func (h *Handler) writeLifecycleError(w http.ResponseWriter, entity string, err error) {
	if errors.Is(err, mongo.ErrNoDocuments) {
		common.WriteJSON(h.logger, w, http.StatusNotFound, map[string]string{"error": entity + "が見つかりません"})
		return
	}
	if h.logger != nil {
		h.logger.Printf("%sのライフサイクル操作に失敗: %v", entity, err)
	}
	common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": entity + "の操作に失敗しました"})
}
