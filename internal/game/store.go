package game

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// DefaultStoreLimit is how many session decks a DeckStore keeps.
const DefaultStoreLimit = 512

// DeckStore resolves deck references for the front ends. A reference is
// either a 1-indexed deck number in the decks file or the ID of a deck
// added during this process. Session decks live in memory only; past the
// limit the oldest is forgotten.
type DeckStore struct {
	mu    sync.Mutex
	pool  []*Card
	file  string
	limit int
	decks map[string]*Deck
	order []string // session deck IDs, oldest first
}

func NewDeckStore(pool []*Card, file string) *DeckStore {
	return &DeckStore{pool: pool, file: file, limit: DefaultStoreLimit, decks: make(map[string]*Deck)}
}

// SetLimit changes how many session decks are kept. n < 1 means 1.
func (s *DeckStore) SetLimit(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limit = max(n, 1)
	s.evict()
}

func (s *DeckStore) SetPool(pool []*Card) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pool = pool
}

func (s *DeckStore) SetFile(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.file = path
}

// Add remembers d under its ID, forgetting the oldest deck when full.
func (s *DeckStore) Add(d *Deck) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.decks[d.ID]; !ok {
		s.order = append(s.order, d.ID)
	}
	s.decks[d.ID] = d
	s.evict()
}

// Len is the number of session decks held.
func (s *DeckStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.decks)
}

func (s *DeckStore) evict() {
	for len(s.order) > s.limit {
		delete(s.decks, s.order[0])
		s.order = s.order[1:]
	}
}

// Resolve looks up ref. Decks read from the file take their entry name as ID.
func (s *DeckStore) Resolve(ref string) (*Deck, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("missing deck reference")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if n, err := strconv.Atoi(ref); err == nil {
		if s.file == "" {
			return nil, fmt.Errorf("deck %d: no decks file configured", n)
		}
		name, d, err := DeckByNumber(s.file, s.pool, n)
		if err != nil {
			return nil, err
		}
		d.ID = name
		return d, nil
	}
	if d, ok := s.decks[ref]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("unknown deck %q: use a deck number or the id of a built deck", ref)
}

// Entries lists the decks file, or nothing when no file is configured.
func (s *DeckStore) Entries() ([]DeckEntry, error) {
	s.mu.Lock()
	file := s.file
	s.mu.Unlock()
	if file == "" {
		return nil, nil
	}
	df, err := readDeckFile(file)
	if err != nil {
		return nil, err
	}
	return df.Decks, nil
}
