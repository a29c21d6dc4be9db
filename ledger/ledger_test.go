package ledger_test

import (
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/flowgate/oauth2server/ledger"
	"github.com/flowgate/oauth2server/sessions"
	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T) *sessions.Session {
	t.Helper()
	store := sessions.NewStore("SESSIONID")
	return store.Create(httptest.NewRecorder(), "")
}

func TestLedger_PutGet(t *testing.T) {
	l := ledger.New()
	session := newSession(t)

	require.Nil(t, l.Get("missing"))

	l.Put("tok-1", session)
	require.Same(t, session, l.Get("tok-1"))
	require.Equal(t, 1, l.Len())

	l.Delete("tok-1")
	require.Nil(t, l.Get("tok-1"))
	require.Equal(t, 0, l.Len())
}

func TestLedger_TakeOnce(t *testing.T) {
	l := ledger.New()
	session := newSession(t)
	l.Put("code-1", session)

	require.Same(t, session, l.TakeOnce("code-1"))
	require.Nil(t, l.TakeOnce("code-1"), "a code can be taken exactly once")
	require.Nil(t, l.Get("code-1"))
}

func TestLedger_TakeOnce_ConcurrentRedemption(t *testing.T) {
	const attempts = 64

	l := ledger.New()
	session := newSession(t)
	l.Put("code-race", session)

	var wins int64
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if l.TakeOnce("code-race") != nil {
				atomic.AddInt64(&wins, 1)
			}
		}()
	}
	close(start)
	wg.Wait()

	require.EqualValues(t, 1, wins, "exactly one concurrent redemption may succeed")
}
