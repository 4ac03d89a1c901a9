package application

import (
	"context"
	"time"
)

const lifecycleLookupTimeout = 5 * time.Second

// registerLifecycleHandlers はエンティティのライフサイクルイベントを購読し、
// 対応するキャッシュ枝を刈り取る。掃除はベストエフォートで、存在しない枝や
// 参照解決の失敗は呼び出し元へ伝播させない。
func (s *AnswerService) registerLifecycleHandlers() {
	s.events.OnSurveysDeleted(func(ev SurveysDeletedEvent) {
		for _, survey := range ev.Surveys {
			s.cache.RemoveSurvey(survey.ID)
		}
	})

	s.events.OnDomainsUpdated(func(ev DomainsUpdatedEvent) {
		for index, updated := range ev.Updated {
			if index >= len(ev.Previous) {
				break
			}
			previous := ev.Previous[index]
			if previous.ActiveSurvey != "" && updated.ActiveSurvey != previous.ActiveSurvey {
				s.cache.RemoveDomain(previous.ActiveSurvey, updated.ID)
			}
		}
	})

	s.events.OnDomainsDeleted(func(ev DomainsDeletedEvent) {
		for _, deleted := range ev.Domains {
			if deleted.ActiveSurvey != "" {
				s.cache.RemoveDomain(deleted.ActiveSurvey, deleted.ID)
			}
		}
	})

	s.events.OnClientsDeleted(func(ev ClientsDeletedEvent) {
		for _, client := range ev.Clients {
			if client.Domain == "" {
				continue
			}

			ctx, cancel := context.WithTimeout(context.Background(), lifecycleLookupTimeout)
			owner, err := s.domains.FindByID(ctx, client.Domain)
			cancel()
			if err != nil || owner == nil {
				if s.logger != nil {
					s.logger.Printf("クライアント %s の所属ドメイン %s を解決できませんでした: %v", client.ID, client.Domain, err)
				}
				continue
			}

			if owner.ActiveSurvey != "" {
				s.cache.RemoveClient(owner.ActiveSurvey, owner.ID, client.ID)
			}
		}
	})
}
