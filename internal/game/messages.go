package game

import (
	"fmt"
	"time"

	"github.com/samdwyer/idlequest/internal/battle"
	"github.com/samdwyer/idlequest/internal/entity"
)

// MessageKind selects the color of a log line.
type MessageKind string

const (
	MessageInfo     MessageKind = "info"
	MessageDamage   MessageKind = "damage"
	MessageCritical MessageKind = "critical"
	MessageHeal     MessageKind = "heal"
	MessageWarning  MessageKind = "warning"
	MessageError    MessageKind = "error"
	MessageSuccess  MessageKind = "success"
)

// Message is one line of the battle log.
type Message struct {
	Kind MessageKind
	Text string
	At   time.Time
}

// MessageLog keeps the most recent messages, oldest first.
type MessageLog struct {
	limit    int
	messages []Message
}

// NewMessageLog creates a log that keeps at most limit lines.
func NewMessageLog(limit int) *MessageLog {
	return &MessageLog{limit: max(1, limit)}
}

// Add appends a line, dropping the oldest when full.
func (l *MessageLog) Add(kind MessageKind, at time.Time, format string, args ...any) {
	l.messages = append(l.messages, Message{Kind: kind, Text: fmt.Sprintf(format, args...), At: at})
	if over := len(l.messages) - l.limit; over > 0 {
		l.messages = l.messages[over:]
	}
}

// Recent returns up to n of the newest messages, oldest first.
func (l *MessageLog) Recent(n int) []Message {
	if n >= len(l.messages) {
		return l.messages
	}
	return l.messages[len(l.messages)-n:]
}

// Len returns the number of stored messages.
func (l *MessageLog) Len() int {
	return len(l.messages)
}

// describe turns an orchestrator event into a log line. ok is false for
// events that are not logged.
func describe(ev battle.Event) (kind MessageKind, text string, ok bool) {
	switch e := ev.(type) {
	case battle.DamageEvent:
		if e.Critical {
			return MessageCritical, fmt.Sprintf("%s lands a critical hit on %s for %d!", e.Attacker.GetName(), e.Defender.GetName(), e.Damage), true
		}
		return MessageDamage, fmt.Sprintf("%s hits %s for %d", e.Attacker.GetName(), e.Defender.GetName(), e.Damage), true
	case battle.EnemyDefeatedEvent:
		return MessageSuccess, fmt.Sprintf("Defeated %s! +%d exp, +%d gold", enemyLabel(e.Enemy), e.Enemy.Rewards.Experience, e.Enemy.Rewards.Gold), true
	case battle.LevelUpEvent:
		return MessageSuccess, fmt.Sprintf("Level up! You are now level %d", e.NewLevel), true
	case battle.BattleResultEvent:
		if e.PlayerWon() {
			return "", "", false
		}
		return MessageWarning, fmt.Sprintf("%s was defeated by %s", e.Loser.GetName(), e.Winner.GetName()), true
	case battle.ReviveEvent:
		if e.Kind == battle.ReviveDone {
			return MessageHeal, "Revived at full health", true
		}
		return MessageInfo, fmt.Sprintf("Reviving in %ds...", e.Seconds), true
	case battle.StageStartedEvent:
		return MessageInfo, fmt.Sprintf("Stage %d begins", e.Level), true
	case battle.StageCompletedEvent:
		return MessageSuccess, fmt.Sprintf("Stage %d cleared! Restarting...", e.Level), true
	default:
		return "", "", false
	}
}

func enemyLabel(e *entity.Enemy) string {
	if e.IsBoss {
		return "boss " + e.Name
	}
	return e.Name
}
