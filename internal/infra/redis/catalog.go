package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"quiz-results-service/internal/domain"
	"quiz-results-service/internal/infra/memory"
)

// Catalog caches whole quiz documents in Redis and falls back to a loader on
// cache miss. Documents are stored as: SET quiz:{quizID}:doc {json} EX ttl.
// The scorer needs the full option set including correctness flags, so the
// cache holds the complete document rather than a derived answer key.
type Catalog struct {
	client *redis.Client
	loader memory.CatalogLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewCatalog(client *redis.Client, loader memory.CatalogLoader, ttl time.Duration) *Catalog {
	return &Catalog{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *Catalog) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	key := c.docKey(quizID)

	if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var quiz domain.Quiz
		if err := json.Unmarshal(raw, &quiz); err == nil {
			return quiz, nil
		}
	}

	result, err, _ := c.sf.Do(quizID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
			var quiz domain.Quiz
			if err := json.Unmarshal(raw, &quiz); err == nil {
				return quiz, nil
			}
		}

		quiz, err := c.loader.LoadQuiz(ctx, quizID)
		if err != nil {
			return domain.Quiz{}, err
		}

		if raw, err := json.Marshal(quiz); err == nil {
			_ = c.client.Set(ctx, key, raw, c.ttlWithJitter()).Err()
		}
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

// ListQuizzes always hits the loader; the listing is paginated and cheap.
func (c *Catalog) ListQuizzes(ctx context.Context, limit, offset int) ([]domain.Quiz, int, error) {
	return c.loader.ListQuizzes(ctx, limit, offset)
}

func (c *Catalog) docKey(quizID string) string {
	return "quiz:" + quizID + ":doc"
}

func (c *Catalog) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
