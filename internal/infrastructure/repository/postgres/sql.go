package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/lib/pq"
	"github.com/riskibarqy/courtstats/internal/domain/gameevent"
)

const pqUniqueViolation = "23505"

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pqUniqueViolation
	}
	return false
}

func encodeShotDetail(detail gameevent.ShotDetail) (string, error) {
	doc := shotDetailDocument(detail)
	if doc == (shotDetailDocument{}) {
		return "{}", nil
	}
	encoded, err := sonic.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode shot detail: %w", err)
	}
	return string(encoded), nil
}

// decodeShotDetail fails on a malformed document; a lost points override would change replay.
func decodeShotDetail(raw string) (gameevent.ShotDetail, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return gameevent.ShotDetail{}, nil
	}
	var doc shotDetailDocument
	if err := sonic.Unmarshal([]byte(raw), &doc); err != nil {
		return gameevent.ShotDetail{}, fmt.Errorf("decode shot detail: %w", err)
	}
	return gameevent.ShotDetail(doc), nil
}
