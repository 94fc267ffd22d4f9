package tgbot

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	botmodel "github.com/lmercier/pongtracker/bot/model"
)

func TestSubscriptions(t *testing.T) {
	subs := newSubs()
	subs.Add(botmodel.MatchFinished, 1)
	subs.Add(botmodel.MatchFinished, 2)
	subs.Add(botmodel.MatchFinished, 2)
	require.ElementsMatch(t, []int64{1, 2}, subs.GetUserIDs(botmodel.MatchFinished))

	subs.Remove(botmodel.MatchFinished, 1)
	require.ElementsMatch(t, []int64{2}, subs.GetUserIDs(botmodel.MatchFinished))

	require.Empty(t, subs.GetUserIDs(botmodel.EventType(99)))
	subs.Remove(botmodel.EventType(99), 1)
}

// Subscribe commands run on the bot's update loop while finished-match
// notifications read the same sets from web request goroutines.
func TestSubscriptionsConcurrent(t *testing.T) {
	subs := newSubs()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		i := i
		wg.Add(2)
		go func() {
			defer wg.Done()
			for id := int64(0); id < 100; id++ {
				subs.Add(botmodel.MatchFinished, id*8+int64(i))
			}
		}()
		go func() {
			defer wg.Done()
			for n := 0; n < 100; n++ {
				subs.GetUserIDs(botmodel.MatchFinished)
				subs.Remove(botmodel.MatchFinished, int64(n*8+i))
			}
		}()
	}
	wg.Wait()

	ids := subs.GetUserIDs(botmodel.MatchFinished)
	for _, id := range ids {
		require.GreaterOrEqual(t, id, int64(0))
	}
}
