package web

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/peterkuimelis/deckforge/internal/builder"
	"github.com/peterkuimelis/deckforge/internal/config"
	"github.com/peterkuimelis/deckforge/internal/game"
	"github.com/peterkuimelis/deckforge/internal/sim"
	"github.com/peterkuimelis/deckforge/internal/view"
)

// DeckInfo is the JSON representation of a deck for the /api/decks endpoint.
type DeckInfo struct {
	Number   int      `json:"number"`
	Name     string   `json:"name"`
	Leader   string   `json:"leader"`
	Strategy string   `json:"strategy,omitempty"`
	Cards    []string `json:"cards"`
}

// BuildRequest is the body of POST /api/build.
type BuildRequest struct {
	Strategy string `json:"strategy"`
	Color    string `json:"color"`
	Leader   string `json:"leader"`
	Owned    string `json:"owned"` // "Name:count, Name:count"
	Seed     *int64 `json:"seed"`
}

// ImproveRequest is the body of POST /api/improve.
type ImproveRequest struct {
	Deck  string `json:"deck"`
	Owned string `json:"owned"`
	Seed  *int64 `json:"seed"`
}

// SimulateRequest is the body of POST /api/simulate and the first message
// on /ws/simulate.
type SimulateRequest struct {
	DeckA  string `json:"deck_a"`
	DeckB  string `json:"deck_b"`
	Trials int    `json:"trials"`
	Seed   *int64 `json:"seed"`
}

// SimMessage is a server message on /ws/simulate.
type SimMessage struct {
	Type   string      `json:"type"` // "progress", "report" or "error"
	Done   int         `json:"done,omitempty"`
	Total  int         `json:"total,omitempty"`
	Report *sim.Report `json:"report,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// Server is the deckforge HTTP API.
type Server struct {
	pool  []*game.Card
	rules config.Rules
	decks *game.DeckStore
	mux   *http.ServeMux
}

// NewServer creates a server over pool. decksFile may be empty.
func NewServer(pool []*game.Card, rules config.Rules, decksFile string) *Server {
	s := &Server{
		pool:  pool,
		rules: rules,
		decks: game.NewDeckStore(pool, decksFile),
		mux:   http.NewServeMux(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("GET /api/cards", s.handleCards)
	s.mux.HandleFunc("GET /api/leaders", s.handleLeaders)
	s.mux.HandleFunc("GET /api/decks", s.handleDecks)
	s.mux.HandleFunc("GET /api/analyze", s.handleAnalyze)
	s.mux.HandleFunc("POST /api/build", s.handleBuild)
	s.mux.HandleFunc("POST /api/improve", s.handleImprove)
	s.mux.HandleFunc("POST /api/simulate", s.handleSimulate)

	// Streams progress while the simulation runs.
	s.mux.HandleFunc("GET /ws/simulate", s.handleSimulateWS)
}

// ServeHTTP lets the server be mounted or tested directly.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	cards := make([]view.CardView, 0, len(s.pool))
	for _, c := range s.pool {
		cards = append(cards, view.NewCardView(c))
	}
	writeJSON(w, http.StatusOK, cards)
}

func (s *Server) handleLeaders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, view.Leaders(s.pool, r.URL.Query().Get("color"), s.rules))
}

func (s *Server) handleDecks(w http.ResponseWriter, r *http.Request) {
	entries, err := s.decks.Entries()
	if err != nil {
		log.Printf("read decks file: %v", err)
		writeError(w, http.StatusInternalServerError, "could not read decks file")
		return
	}

	decks := []DeckInfo{}
	for i, e := range entries {
		di := DeckInfo{
			Number:   i + 1,
			Name:     e.Name,
			Leader:   e.Leader,
			Strategy: string(e.Strategy),
		}
		for _, c := range e.Cards {
			di.Cards = append(di.Cards, fmt.Sprintf("%dx %s", c.Count, c.Name))
		}
		decks = append(decks, di)
	}
	writeJSON(w, http.StatusOK, decks)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	deck, err := s.decks.Resolve(r.URL.Query().Get("deck"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, view.NewBuildView(deck, s.rules))
}

func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	var req BuildRequest
	if !decodeBody(w, r, &req) {
		return
	}
	strategy, err := game.ParseStrategy(req.Strategy)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	color := req.Color
	if color == "" {
		color = game.AnyColor
	}
	breq := builder.Request{Strategy: strategy, Color: color, Leader: req.Leader}
	b := s.newBuilder(req.Seed)

	var deck *game.Deck
	var coverage *builder.CollectionCoverage
	if req.Owned != "" {
		owned, err := builder.ParseCollection(req.Owned)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		var cov builder.CollectionCoverage
		deck, cov, err = b.BuildFromCollection(s.pool, breq, owned)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		coverage = &cov
	} else {
		deck, err = b.Build(s.pool, breq)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
	}

	s.decks.Add(deck)
	resp := view.NewBuildView(deck, s.rules)
	resp.Coverage = coverage
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleImprove(w http.ResponseWriter, r *http.Request) {
	var req ImproveRequest
	if !decodeBody(w, r, &req) {
		return
	}
	deck, err := s.decks.Resolve(req.Deck)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	owned, err := builder.ParseCollection(req.Owned)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	imps, err := s.newBuilder(req.Seed).SuggestImprovements(s.pool, deck, owned)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	for _, imp := range imps {
		s.decks.Add(imp.Deck)
	}
	writeJSON(w, http.StatusOK, view.NewImprovementViews(imps, s.rules.DeckSize))
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	report, status, err := s.simulate(r.Context(), req, nil)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleSimulateWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		log.Printf("WebSocket accept error: %v", err)
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()

	var req SimulateRequest
	if err := wsjson.Read(ctx, conn, &req); err != nil {
		conn.Close(websocket.StatusPolicyViolation, "expected simulate request")
		return
	}

	// Workers report progress here; this goroutine owns the connection.
	progress := make(chan SimMessage, 16)
	type result struct {
		report *sim.Report
		err    error
	}
	done := make(chan result, 1)

	go func() {
		report, _, err := s.simulate(ctx, req, func(n, total int) {
			select {
			case progress <- SimMessage{Type: "progress", Done: n, Total: total}:
			default: // drop updates the client is too slow for
			}
		})
		done <- result{report, err}
	}()

	for {
		select {
		case msg := <-progress:
			if err := wsjson.Write(ctx, conn, msg); err != nil {
				log.Printf("WebSocket write error: %v", err)
				return
			}
		case res := <-done:
			msg := SimMessage{Type: "report", Report: res.report}
			if res.err != nil {
				msg = SimMessage{Type: "error", Error: res.err.Error()}
			}
			if err := wsjson.Write(ctx, conn, msg); err != nil {
				log.Printf("WebSocket write error: %v", err)
				return
			}
			conn.Close(websocket.StatusNormalClosure, "simulation finished")
			return
		}
	}
}

// simulate runs req, returning the HTTP status that fits any error.
func (s *Server) simulate(ctx context.Context, req SimulateRequest, progress func(done, total int)) (*sim.Report, int, error) {
	a, err := s.decks.Resolve(req.DeckA)
	if err != nil {
		return nil, http.StatusNotFound, fmt.Errorf("deck_a: %w", err)
	}
	b, err := s.decks.Resolve(req.DeckB)
	if err != nil {
		return nil, http.StatusNotFound, fmt.Errorf("deck_b: %w", err)
	}
	trials := req.Trials
	if trials == 0 {
		trials = s.rules.DefaultTrials
	}

	simulator := sim.New(s.rules, sim.Options{Seed: seedOrNow(req.Seed), Progress: progress})
	report, err := simulator.Simulate(ctx, a, b, trials)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	return report, http.StatusOK, nil
}

func (s *Server) newBuilder(seed *int64) *builder.Builder {
	return builder.New(s.rules, rand.New(rand.NewSource(seedOrNow(seed))))
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}

func seedOrNow(seed *int64) int64 {
	if seed != nil {
		return *seed
	}
	return time.Now().UnixNano()
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
