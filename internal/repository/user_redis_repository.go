package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"usermgmt/internal/entities"
)

const (
	userKeyPrefix = "user:"
	userIndexKey  = "users:index" // sorted set of IDs scored by insertion sequence
	userSeqKey    = "users:seq"
)

// Writes the field/value pairs in ARGV only while the hash still exists,
// so an update racing a delete cannot recreate the document.
var updateIfExistsScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return 0
end
redis.call("HSET", KEYS[1], unpack(ARGV))
return 1
`)

// Each user is stored as one Redis hash holding its document fields.
type redisUserRepository struct {
	client *redis.Client
}

// NewRedisUserRepository creates a Redis backed user repository
func NewRedisUserRepository(client *redis.Client) UserRepository {
	return &redisUserRepository{client: client}
}

func userKey(id string) string {
	return userKeyPrefix + id
}

func (r *redisUserRepository) Insert(ctx context.Context, user *entities.User) (*entities.User, error) {
	now := time.Now().UTC()
	created := &entities.User{
		ID:        uuid.NewString(),
		Name:      user.Name,
		Email:     user.Email,
		Password:  user.Password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	seq, err := r.client.Incr(ctx, userSeqKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, userKey(created.ID), map[string]interface{}{
			"name":       created.Name,
			"email":      created.Email,
			"password":   created.Password,
			"created_at": formatTime(created.CreatedAt),
			"updated_at": formatTime(created.UpdatedAt),
		})
		pipe.ZAdd(ctx, userIndexKey, redis.Z{Score: float64(seq), Member: created.ID})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return created, nil
}

func (r *redisUserRepository) FindAll(ctx context.Context) ([]*entities.User, error) {
	ids, err := r.client.ZRange(ctx, userIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	users := []*entities.User{}
	if len(ids) == 0 {
		return users, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, userKey(id))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	for i, cmd := range cmds {
		fields := cmd.Val()
		// Index entry without a document; skip it rather than fail the listing
		if len(fields) == 0 {
			continue
		}
		users = append(users, userFromHash(ids[i], fields))
	}

	return users, nil
}

func (r *redisUserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	fields, err := r.client.HGetAll(ctx, userKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if len(fields) == 0 {
		return nil, ErrUserNotFound
	}

	return userFromHash(id, fields), nil
}

func (r *redisUserRepository) UpdateByID(ctx context.Context, id string, update entities.UserUpdate) error {
	args := []interface{}{"updated_at", formatTime(time.Now().UTC())}
	if update.Name != nil {
		args = append(args, "name", *update.Name)
	}
	if update.Email != nil {
		args = append(args, "email", *update.Email)
	}
	if update.Password != nil {
		args = append(args, "password", *update.Password)
	}

	updated, err := updateIfExistsScript.Run(ctx, r.client, []string{userKey(id)}, args...).Int()
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if updated == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *redisUserRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, userKey(id))
		pipe.ZRem(ctx, userIndexKey, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}

func userFromHash(id string, fields map[string]string) *entities.User {
	return &entities.User{
		ID:        id,
		Name:      fields["name"],
		Email:     fields["email"],
		Password:  fields["password"],
		CreatedAt: parseTime(fields["created_at"]),
		UpdatedAt: parseTime(fields["updated_at"]),
	}
}

func formatTime(t time.Time) string {
	return strconv.FormatInt(t.UnixNano(), 10)
}

func parseTime(s string) time.Time {
	ns, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(0, ns).UTC()
}
