package common

import (
	"encoding/json"
	"log"
	"net/http"
)

// WriteJSON は payload を JSON でレスポンスに書き出す共通ヘルパー。
// エンコード失敗はステータス送信後なのでログに残すしかない。
func WriteJSON(logger *log.Logger, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Printf("JSON エンコードに失敗: %v", err)
	}
}
