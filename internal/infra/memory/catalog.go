package memory

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"quiz-results-service/internal/domain"
)

// CatalogLoader fetches quiz content from a backing store (e.g., Postgres).
type CatalogLoader interface {
	LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
	ListQuizzes(ctx context.Context, limit, offset int) ([]domain.Quiz, int, error)
}

// Catalog caches quizzes with TTL to avoid repeated DB hits. Listing is a
// pass-through; only single-quiz reads are hot enough to cache.
type Catalog struct {
	loader CatalogLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedQuiz
}

type cachedQuiz struct {
	quiz      domain.Quiz
	expiresAt time.Time
}

func NewCatalog(loader CatalogLoader, ttl time.Duration) *Catalog {
	return &Catalog{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedQuiz),
	}
}

func (c *Catalog) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.cache[quizID]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.quiz, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(quizID, func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.cache[quizID]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.quiz, nil
		}
		c.mu.RUnlock()

		quiz, err := c.loader.LoadQuiz(ctx, quizID)
		if err != nil {
			return domain.Quiz{}, err
		}

		c.mu.Lock()
		c.cache[quizID] = cachedQuiz{
			quiz:      quiz,
			expiresAt: now.Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

func (c *Catalog) ListQuizzes(ctx context.Context, limit, offset int) ([]domain.Quiz, int, error) {
	return c.loader.ListQuizzes(ctx, limit, offset)
}

func (c *Catalog) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

// StaticCatalogLoader is a simple loader backed by an in-memory map (useful
// for tests/demos).
type StaticCatalogLoader struct {
	quizzes map[string]domain.Quiz
	order   []string
}

func NewStaticCatalogLoader(quizzes map[string]domain.Quiz) *StaticCatalogLoader {
	order := make([]string, 0, len(quizzes))
	for id := range quizzes {
		order = append(order, id)
	}
	sort.Strings(order)
	return &StaticCatalogLoader{quizzes: quizzes, order: order}
}

func (l *StaticCatalogLoader) LoadQuiz(_ context.Context, quizID string) (domain.Quiz, error) {
	if quiz, ok := l.quizzes[quizID]; ok {
		return quiz, nil
	}
	return domain.Quiz{}, domain.ErrQuizNotFound
}

func (l *StaticCatalogLoader) ListQuizzes(_ context.Context, limit, offset int) ([]domain.Quiz, int, error) {
	total := len(l.order)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	quizzes := make([]domain.Quiz, 0, end-offset)
	for _, id := range l.order[offset:end] {
		quizzes = append(quizzes, l.quizzes[id])
	}
	return quizzes, total, nil
}
