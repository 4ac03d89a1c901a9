package public

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sngm3741/survey-terminal-services/api/internal/interfaces/http/common"
	"github.com/sngm3741/survey-terminal-services/api/internal/public/domain"
)

// answerCreateHandler は回答一件を検証・集約し、全回答が揃った場合は投票を
// 確定する。voteCreated が true のとき端末は完了画面へ遷移してよい。
func (h *Handler) answerCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.UserFromContext(r.Context())
		if !ok {
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "認証情報の取得に失敗しました"})
			return
		}

		body := http.MaxBytesReader(w, r.Body, common.MaxAnswerRequestBody)
		var req createAnswerRequest
		if err := json.NewDecoder(body).Decode(&req); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "リクエストボディを解釈できません"})
			return
		}

		input, err := req.toInput()
		if err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		scope, err := h.resolveScope(r.Context(), user)
		if err != nil {
			h.writeScopeError(w, err)
			return
		}

		answer, voteCreated, err := h.answers.CreateAnswer(r.Context(), scope, input)
		if err != nil {
			h.writeAnswerError(w, err)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, createAnswerResponse{
			Answer:      buildAnswerPayload(answer),
			VoteCreated: voteCreated,
		})
	}
}

// answerRemoveHandler turns an already-submitted answer back into an explicit
// skip. Missing branches and answers are silently successful.
func (h *Handler) answerRemoveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.UserFromContext(r.Context())
		if !ok {
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "認証情報の取得に失敗しました"})
			return
		}

		questionID := chi.URLParam(r, "questionID")
		if questionID == "" {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "質問 ID を指定してください"})
			return
		}

		scope, err := h.resolveScope(r.Context(), user)
		if err != nil {
			h.writeScopeError(w, err)
			return
		}

		success := h.answers.RemoveAnswerForQuestion(questionID, scope)
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]bool{"success": success})
	}
}

// cacheEntryCreateHandler pre-creates the answer branch for a terminal that
// just opened the survey. Idempotent.
func (h *Handler) cacheEntryCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.UserFromContext(r.Context())
		if !ok {
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "認証情報の取得に失敗しました"})
			return
		}

		scope, err := h.resolveScope(r.Context(), user)
		if err != nil {
			h.writeScopeError(w, err)
			return
		}

		h.answers.CreateCacheEntryForClient(scope.Survey.ID, scope.Domain.ID, scope.Client.ID)
		common.WriteJSON(h.logger, w, http.StatusCreated, map[string]string{"status": "created"})
	}
}

func (h *Handler) writeAnswerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrAnswerInvalid), errors.Is(err, domain.ErrNoQuestions):
		common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "回答が無効です"})
	case errors.Is(err, domain.ErrVoteNotPersisted):
		common.WriteJSON(h.logger, w, http.StatusServiceUnavailable, map[string]any{
			"error":     "投票を保存できませんでした。再送してください",
			"retryable": true,
		})
	default:
		if h.logger != nil {
			h.logger.Printf("回答の処理に失敗: %v", err)
		}
		common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "回答の処理に失敗しました"})
	}
}
