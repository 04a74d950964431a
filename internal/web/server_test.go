package web

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/deckforge/internal/builder"
	"github.com/peterkuimelis/deckforge/internal/config"
	"github.com/peterkuimelis/deckforge/internal/game"
	"github.com/peterkuimelis/deckforge/internal/sim"
	"github.com/peterkuimelis/deckforge/internal/view"
)

func newTestServer(t *testing.T, decksFile string) (*Server, []*game.Card) {
	t.Helper()
	pool, err := game.LoadPool("../../data/cards.yaml")
	require.NoError(t, err)
	return NewServer(pool, config.Default(), decksFile), pool
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func buildDeck(t *testing.T, s *Server, body string) view.BuildView {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/api/build", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[view.BuildView](t, rec)
}

func TestCardsAndLeaders(t *testing.T) {
	s, pool := newTestServer(t, "")

	rec := do(t, s, http.MethodGet, "/api/cards", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Len(t, decode[[]view.CardView](t, rec), len(pool))

	rec = do(t, s, http.MethodGet, "/api/leaders?color=Red", "")
	require.Equal(t, http.StatusOK, rec.Code)
	leaders := decode[[]view.LeaderView](t, rec)
	require.NotEmpty(t, leaders)
	for _, l := range leaders {
		assert.Contains(t, l.Leader.Colors, "Red")
	}
}

func TestBuildThenAnalyze(t *testing.T) {
	s, _ := newTestServer(t, "")

	built := buildDeck(t, s, `{"strategy":"aggressive","color":"Red","seed":7}`)
	assert.Equal(t, "aggressive", built.Deck.Strategy)
	assert.Contains(t, built.Deck.Leader.Colors, "Red")
	assert.Equal(t, 50, built.Deck.Size)
	assert.Nil(t, built.Coverage)

	again := buildDeck(t, s, `{"strategy":"aggressive","color":"Red","seed":7}`)
	assert.Equal(t, built.Deck.Cards, again.Deck.Cards)

	rec := do(t, s, http.MethodGet, "/api/analyze?deck="+built.Deck.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	analyzed := decode[view.BuildView](t, rec)
	assert.Equal(t, built.Analysis, analyzed.Analysis)

	rec = do(t, s, http.MethodGet, "/api/analyze?deck=nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBuildRejectsBadInput(t *testing.T) {
	s, _ := newTestServer(t, "")

	rec := do(t, s, http.MethodPost, "/api/build", `{"strategy":"tournament"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[map[string]string](t, rec)["error"], "unknown strategy")

	rec = do(t, s, http.MethodPost, "/api/build", `{"color":"Chartreuse"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/build", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/build", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestBuildWithCollectionReportsCoverage(t *testing.T) {
	s, _ := newTestServer(t, "")

	plain := buildDeck(t, s, `{"leader":"Monkey D. Luffy","seed":1}`)
	built := buildDeck(t, s, `{"leader":"Monkey D. Luffy","owned":"Portgas D. Ace:4, Sabo:4","seed":1}`)
	assert.Equal(t, plain.Deck.Cards, built.Deck.Cards)

	require.NotNil(t, built.Coverage)
	assert.Equal(t, 50, built.Coverage.TotalCards)
	owned := 0
	for _, c := range built.Deck.Cards {
		if c.Name == "Portgas D. Ace" || c.Name == "Sabo" {
			owned += c.Count
		}
	}
	assert.Equal(t, owned, built.Coverage.CardsOwned)
}

func TestImproveReturnsThreeVariants(t *testing.T) {
	s, _ := newTestServer(t, "")
	built := buildDeck(t, s, `{"strategy":"control","seed":3}`)

	rec := do(t, s, http.MethodPost, "/api/improve", `{"deck":"`+built.Deck.ID+`","seed":3}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	imps := decode[[]view.ImprovementView](t, rec)
	require.Len(t, imps, 3)
	for _, imp := range imps {
		assert.Equal(t, built.Deck.Leader.Name, imp.Deck.Leader.Name)
		// variants are remembered and can be simulated
		rec := do(t, s, http.MethodGet, "/api/analyze?deck="+imp.Deck.ID, "")
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestSimulateIsReproducible(t *testing.T) {
	s, _ := newTestServer(t, "")
	a := buildDeck(t, s, `{"strategy":"aggressive","seed":11}`)
	b := buildDeck(t, s, `{"strategy":"control","seed":12}`)

	body := `{"deck_a":"` + a.Deck.ID + `","deck_b":"` + b.Deck.ID + `","trials":200,"seed":42}`
	first := do(t, s, http.MethodPost, "/api/simulate", body)
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	second := do(t, s, http.MethodPost, "/api/simulate", body)

	r1, r2 := decode[sim.Report](t, first), decode[sim.Report](t, second)
	assert.Equal(t, 200, r1.Trials)
	assert.Equal(t, 200, r1.Wins+r1.Losses)
	assert.Equal(t, r1, r2)

	rec := do(t, s, http.MethodPost, "/api/simulate", `{"deck_a":"`+a.Deck.ID+`","deck_b":"missing"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/simulate", `{"deck_a":"`+a.Deck.ID+`","deck_b":"`+b.Deck.ID+`","trials":-5}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/simulate", `{"deck_a":"`+a.Deck.ID+`","deck_b":"`+b.Deck.ID+`","trials":100001}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "max_trials")
}

func TestDecksFile(t *testing.T) {
	pool, err := game.LoadPool("../../data/cards.yaml")
	require.NoError(t, err)
	d, err := builder.New(config.Default(), rand.New(rand.NewSource(1))).Build(pool, builder.Request{Strategy: game.StrategyBalanced})
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "decks.yaml")
	require.NoError(t, game.SaveDeckFile(path, game.NewDeckEntry("Midrange", d)))

	s := NewServer(pool, config.Default(), path)
	rec := do(t, s, http.MethodGet, "/api/decks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decks := decode[[]DeckInfo](t, rec)
	require.Len(t, decks, 1)
	assert.Equal(t, 1, decks[0].Number)
	assert.Equal(t, "Midrange", decks[0].Name)
	assert.Equal(t, d.Leader.Name, decks[0].Leader)

	rec = do(t, s, http.MethodGet, "/api/analyze?deck=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Midrange", decode[view.BuildView](t, rec).Deck.ID)
}

func TestSimulateWebSocketStreamsProgress(t *testing.T) {
	s, _ := newTestServer(t, "")
	a := buildDeck(t, s, `{"strategy":"aggressive","seed":21}`)
	b := buildDeck(t, s, `{"strategy":"balanced","seed":22}`)

	ts := httptest.NewServer(s)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/ws/simulate", nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	seed := int64(9)
	require.NoError(t, wsjson.Write(ctx, conn, SimulateRequest{DeckA: a.Deck.ID, DeckB: b.Deck.ID, Trials: 300, Seed: &seed}))

	var last SimMessage
	for {
		var msg SimMessage
		require.NoError(t, wsjson.Read(ctx, conn, &msg))
		if msg.Type != "progress" {
			last = msg
			break
		}
		assert.Equal(t, 300, msg.Total)
		assert.LessOrEqual(t, msg.Done, 300)
	}
	require.Equal(t, "report", last.Type, last.Error)
	require.NotNil(t, last.Report)
	assert.Equal(t, 300, last.Report.Trials)
	assert.Equal(t, seed, last.Report.Seed)
}
