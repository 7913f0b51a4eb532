package services

import (
	"github.com/google/uuid"

	"github.com/yungbote/questlearn-backend/internal/data/repos"
	types "github.com/yungbote/questlearn-backend/internal/domain"
	"github.com/yungbote/questlearn-backend/internal/learning/leveling"
	"github.com/yungbote/questlearn-backend/internal/observability"
	"github.com/yungbote/questlearn-backend/internal/platform/dbctx"
	"github.com/yungbote/questlearn-backend/internal/realtime"
)

// xpLedger is the single write path for user XP. Every award relevels.
type xpLedger struct {
	userRepo repos.UserRepo
}

// award adds amount to u inside dbc.Tx and updates u in place.
func (l xpLedger) award(dbc dbctx.Context, u *types.User, amount int) (leveling.Award, error) {
	a := leveling.Apply(u.TotalXP, u.CurrentLevel, amount)
	if a.TotalXP == a.PreviousXP && a.Level == a.PreviousLevel {
		return a, nil
	}
	if err := l.userRepo.UpdateXP(dbc.Ctx, dbc.Tx, u.ID, a.TotalXP, a.Level); err != nil {
		return a, err
	}
	u.TotalXP = a.TotalXP
	u.CurrentLevel = a.Level
	return a, nil
}

// XPAwardedEvent is the payload of xp_awarded.
type XPAwardedEvent struct {
	Amount  int    `json:"amount"`
	Source  string `json:"source"`
	TotalXP int    `json:"total_xp"`
	Level   int    `json:"current_level"`
}

type LevelUpEvent struct {
	PreviousLevel int `json:"previous_level"`
	Level         int `json:"current_level"`
	TotalXP       int `json:"total_xp"`
}

// xpEvents describes the net effect of one operation's awards.
func xpEvents(userID uuid.UUID, source string, gained, startLevel int, u *types.User) []realtime.SSEMessage {
	if gained <= 0 || u == nil {
		return nil
	}
	out := []realtime.SSEMessage{
		realtime.ToUser(userID, realtime.SSEEventXPAwarded, XPAwardedEvent{
			Amount:  gained,
			Source:  source,
			TotalXP: u.TotalXP,
			Level:   u.CurrentLevel,
		}),
	}
	if u.CurrentLevel > startLevel {
		out = append(out, realtime.ToUser(userID, realtime.SSEEventLevelUp, LevelUpEvent{
			PreviousLevel: startLevel,
			Level:         u.CurrentLevel,
			TotalXP:       u.TotalXP,
		}))
	}
	return out
}

func observeXP(source string, gained, startLevel int, u *types.User) {
	m := observability.Current()
	if m == nil || u == nil || gained <= 0 {
		return
	}
	m.AddXP(source, gained)
	if u.CurrentLevel > startLevel {
		m.IncLevelUp()
	}
}
