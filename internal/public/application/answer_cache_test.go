package application

import (
	"context"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sngm3741/survey-terminal-services/api/internal/public/domain"
)

func TestAnswerCacheExpiresIdleBranch(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		events := NewEventBus()
		recorder := newEventRecorder(events)
		cache := newAnswerCache(30*time.Minute, events, nil)

		cache.EnsureBranch("s1", "d1", "t1")

		time.Sleep(30*time.Minute + time.Second)
		synctest.Wait()

		require.Equal(t, 1, recorder.expiredCount())
		require.Equal(t, []string{"t1"}, recorder.prunedClients())

		cache.mu.Lock()
		require.Empty(t, cache.surveys)
		cache.mu.Unlock()
	})
}

func TestAnswerCacheTimerResetExtendsLifetime(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		events := NewEventBus()
		recorder := newEventRecorder(events)
		cache := newAnswerCache(30*time.Minute, events, nil)

		cache.EnsureBranch("s1", "d1", "t1")

		// 失効間際に再スケジュールすると寿命が延びる。
		time.Sleep(29 * time.Minute)
		cache.mu.Lock()
		branch := cache.branchLocked("s1", "d1", "t1")
		require.NotNil(t, branch)
		cache.scheduleExpiryLocked(branch, "s1", "d1", "t1")
		cache.mu.Unlock()

		time.Sleep(29 * time.Minute)
		synctest.Wait()
		require.Equal(t, 0, recorder.expiredCount())

		time.Sleep(2 * time.Minute)
		synctest.Wait()
		require.Equal(t, 1, recorder.expiredCount())
	})
}

func TestAnswerCacheRemoveClientCancelsTimer(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		events := NewEventBus()
		recorder := newEventRecorder(events)
		cache := newAnswerCache(30*time.Minute, events, nil)

		cache.EnsureBranch("s1", "d1", "t1")
		cache.RemoveClient("s1", "d1", "t1")
		require.Equal(t, []string{"t1"}, recorder.prunedClients())

		// 取り消し済みタイマーは失効イベントを出さない。
		time.Sleep(time.Hour)
		synctest.Wait()
		require.Equal(t, 0, recorder.expiredCount())
		require.Len(t, recorder.prunedClients(), 1)
	})
}

func TestAnswerCacheCascadesEmptyParents(t *testing.T) {
	events := NewEventBus()
	recorder := newEventRecorder(events)

	var droppedSurveys []string
	cache := newAnswerCache(time.Hour, events, func(surveyID string) {
		droppedSurveys = append(droppedSurveys, surveyID)
	})

	cache.EnsureBranch("s1", "d1", "t1")
	cache.EnsureBranch("s1", "d1", "t2")
	cache.EnsureBranch("s1", "d2", "t3")

	// 兄弟が残っている間は親を畳まない。
	cache.RemoveClient("s1", "d1", "t1")
	require.Empty(t, droppedSurveys)
	cache.mu.Lock()
	require.NotNil(t, cache.branchLocked("s1", "d1", "t2"))
	cache.mu.Unlock()

	cache.RemoveClient("s1", "d1", "t2")
	require.Empty(t, droppedSurveys)

	// 最後の枝が消えるとアンケートごと畳まれ、質問キャッシュ破棄が走る。
	cache.RemoveClient("s1", "d2", "t3")
	require.Equal(t, []string{"s1"}, droppedSurveys)
	cache.mu.Lock()
	require.Empty(t, cache.surveys)
	cache.mu.Unlock()

	require.ElementsMatch(t, []string{"t1", "t2", "t3"}, recorder.prunedClients())
}

func TestAnswerCacheRemoveDomainPrunesAllClients(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		events := NewEventBus()
		recorder := newEventRecorder(events)
		cache := newAnswerCache(30*time.Minute, events, nil)

		cache.EnsureBranch("s1", "d1", "t1")
		cache.EnsureBranch("s1", "d1", "t2")

		cache.RemoveDomain("s1", "d1")
		require.ElementsMatch(t, []string{"t1", "t2"}, recorder.prunedClients())

		time.Sleep(time.Hour)
		synctest.Wait()
		require.Equal(t, 0, recorder.expiredCount())
	})
}

func TestAnswerCacheRemoveSurveyStopsEveryTimer(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		events := NewEventBus()
		recorder := newEventRecorder(events)

		var droppedSurveys []string
		cache := newAnswerCache(30*time.Minute, events, func(surveyID string) {
			droppedSurveys = append(droppedSurveys, surveyID)
		})

		cache.EnsureBranch("s1", "d1", "t1")
		cache.EnsureBranch("s1", "d2", "t2")

		cache.RemoveSurvey("s1")
		require.Equal(t, []string{"s1"}, droppedSurveys)
		require.ElementsMatch(t, []string{"t1", "t2"}, recorder.prunedClients())

		time.Sleep(time.Hour)
		synctest.Wait()
		require.Equal(t, 0, recorder.expiredCount())
	})
}

func TestAnswerServiceExpiryDiscardsPartialAnswers(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		scope, questions := threeQuestionSurvey()
		fx := newServiceFixture(questions)
		ctx := context.Background()

		_, _, err := fx.service.CreateAnswer(ctx, scope, domain.AnswerInput{
			Question: "q1",
			Liked:    ptr(true),
			LikedSet: true,
		})
		require.NoError(t, err)

		time.Sleep(time.Hour + time.Second)
		synctest.Wait()

		require.Equal(t, 1, fx.recorder.expiredCount())
		require.Empty(t, fx.votes.all())

		fx.service.cache.mu.Lock()
		require.Empty(t, fx.service.cache.surveys)
		fx.service.cache.mu.Unlock()
	})
}

func TestAnswerServiceUpdateDoesNotExtendLifetime(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		scope, questions := threeQuestionSurvey()
		fx := newServiceFixture(questions)
		ctx := context.Background()

		_, _, err := fx.service.CreateAnswer(ctx, scope, domain.AnswerInput{
			Question: "q1",
			Liked:    ptr(true),
			LikedSet: true,
		})
		require.NoError(t, err)

		// 同じ質問の上書きはタイマーを巻き戻さない。
		time.Sleep(59 * time.Minute)
		_, _, err = fx.service.CreateAnswer(ctx, scope, domain.AnswerInput{
			Question: "q1",
			Liked:    ptr(false),
			LikedSet: true,
		})
		require.NoError(t, err)

		time.Sleep(2 * time.Minute)
		synctest.Wait()
		require.Equal(t, 1, fx.recorder.expiredCount())
	})
}

func TestAnswerServiceAppendExtendsLifetime(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		scope, questions := threeQuestionSurvey()
		fx := newServiceFixture(questions)
		ctx := context.Background()

		_, _, err := fx.service.CreateAnswer(ctx, scope, domain.AnswerInput{
			Question: "q1",
			Liked:    ptr(true),
			LikedSet: true,
		})
		require.NoError(t, err)

		// 新しい質問への回答はタイマーを張り直す。
		time.Sleep(59 * time.Minute)
		_, _, err = fx.service.CreateAnswer(ctx, scope, domain.AnswerInput{
			Question:  "q2",
			Rating:    ptr(5.0),
			RatingSet: true,
		})
		require.NoError(t, err)

		time.Sleep(2 * time.Minute)
		synctest.Wait()
		require.Equal(t, 0, fx.recorder.expiredCount())

		time.Sleep(time.Hour)
		synctest.Wait()
		require.Equal(t, 1, fx.recorder.expiredCount())
	})
}
