package services

import (
	"context"
	"sort"
	"strconv"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	dataagg "github.com/yungbote/questlearn-backend/internal/data/aggregates"
	"github.com/yungbote/questlearn-backend/internal/data/repos"
	types "github.com/yungbote/questlearn-backend/internal/domain"
	"github.com/yungbote/questlearn-backend/internal/platform/logger"
)

const (
	leaderboardKey          = "leaderboard:xp"
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100
)

type LeaderboardEntry struct {
	Rank         int       `json:"rank"`
	UserID       uuid.UUID `json:"user_id"`
	Username     string    `json:"username"`
	TotalXP      int       `json:"total_xp"`
	CurrentLevel int       `json:"current_level"`
}

type LeaderboardService interface {
	// Record stores u's current total. Failures are logged, never returned.
	Record(ctx context.Context, u *types.User)
	Top(ctx context.Context, limit int) ([]LeaderboardEntry, error)
	// Resync rebuilds the sorted set from the database.
	Resync(ctx context.Context) error
}

type leaderboardService struct {
	db       *gorm.DB
	log      *logger.Logger
	rdb      goredis.UniversalClient
	userRepo repos.UserRepo
}

// NewLeaderboardService reads straight from the database when rdb is nil.
func NewLeaderboardService(db *gorm.DB, log *logger.Logger, rdb goredis.UniversalClient, userRepo repos.UserRepo) LeaderboardService {
	serviceLog := log.With("service", "LeaderboardService")
	return &leaderboardService{db: db, log: serviceLog, rdb: rdb, userRepo: userRepo}
}

// NormalizeLeaderboardLimit clamps limit to [1, MaxLeaderboardLimit]; zero or less
// selects the default.
func NormalizeLeaderboardLimit(limit int) int {
	if limit <= 0 {
		return DefaultLeaderboardLimit
	}
	if limit > MaxLeaderboardLimit {
		return MaxLeaderboardLimit
	}
	return limit
}

func (ls *leaderboardService) Record(ctx context.Context, u *types.User) {
	if ls.rdb == nil || u == nil {
		return
	}
	err := ls.rdb.ZAdd(ctx, leaderboardKey, goredis.Z{
		Score:  float64(u.TotalXP),
		Member: u.ID.String(),
	}).Err()
	if err != nil {
		ls.log.Warn("leaderboard update failed", "user_id", u.ID, "error", err)
	}
}

func (ls *leaderboardService) Top(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	const op = "Leaderboard.Top"
	limit = NormalizeLeaderboardLimit(limit)
	if ls.rdb != nil {
		entries, ok := ls.topFromRedis(ctx, limit)
		if ok {
			return entries, nil
		}
	}
	users, err := ls.userRepo.ListTopByXP(ctx, nil, limit)
	if err != nil {
		return nil, dataagg.MapError(op, err)
	}
	return rank(users), nil
}

// topFromRedis cuts by score, not by member. Every member tied with the limit-th
// score is loaded so ties resolve by username exactly as the database does.
func (ls *leaderboardService) topFromRedis(ctx context.Context, limit int) ([]LeaderboardEntry, bool) {
	edge, err := ls.rdb.ZRevRangeWithScores(ctx, leaderboardKey, int64(limit-1), int64(limit-1)).Result()
	if err != nil {
		ls.log.Warn("leaderboard read failed, using database", "error", err)
		return nil, false
	}
	floor := "-inf"
	if len(edge) == 1 {
		floor = strconv.FormatFloat(edge[0].Score, 'f', -1, 64)
	}
	members, err := ls.rdb.ZRevRangeByScore(ctx, leaderboardKey, &goredis.ZRangeBy{Min: floor, Max: "+inf"}).Result()
	if err != nil {
		ls.log.Warn("leaderboard read failed, using database", "error", err)
		return nil, false
	}
	if len(members) == 0 {
		return nil, false
	}
	ids := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		id, err := uuid.Parse(m)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	users, err := ls.userRepo.GetByIDs(ctx, nil, ids)
	if err != nil {
		ls.log.Warn("leaderboard user lookup failed, using database", "error", err)
		return nil, false
	}
	// Totals come from the rows so a stale score only affects membership.
	sort.SliceStable(users, func(i, j int) bool {
		if users[i].TotalXP != users[j].TotalXP {
			return users[i].TotalXP > users[j].TotalXP
		}
		return users[i].Username < users[j].Username
	})
	if len(users) > limit {
		users = users[:limit]
	}
	return rank(users), true
}

func (ls *leaderboardService) Resync(ctx context.Context) error {
	const op = "Leaderboard.Resync"
	if ls.rdb == nil {
		return nil
	}
	users, err := ls.userRepo.ListAll(ctx, nil)
	if err != nil {
		return dataagg.MapError(op, err)
	}
	_, err = ls.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, leaderboardKey)
		if len(users) == 0 {
			return nil
		}
		members := make([]goredis.Z, 0, len(users))
		for _, u := range users {
			members = append(members, goredis.Z{Score: float64(u.TotalXP), Member: u.ID.String()})
		}
		pipe.ZAdd(ctx, leaderboardKey, members...)
		return nil
	})
	if err != nil {
		return err
	}
	ls.log.Info("leaderboard resynced", "users", len(users))
	return nil
}

func rank(users []*types.User) []LeaderboardEntry {
	out := make([]LeaderboardEntry, 0, len(users))
	for i, u := range users {
		out = append(out, LeaderboardEntry{
			Rank:         i + 1,
			UserID:       u.ID,
			Username:     u.Username,
			TotalXP:      u.TotalXP,
			CurrentLevel: u.CurrentLevel,
		})
	}
	return out
}
