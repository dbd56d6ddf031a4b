package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// LoadWords inserts each word once. Words already in the table are skipped
// and not counted.
func LoadWords(conn *gorm.DB, words []string) (int, error) {
	if conn == nil {
		return 0, errors.New("db connection is nil")
	}
	inserted := 0
	for _, word := range words {
		word = strings.TrimSpace(word)
		if word == "" {
			continue
		}
		if err := conn.Create(&Word{Text: word}).Error; err != nil {
			if IsUniqueViolation(err) {
				continue
			}
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

func ListWords(conn *gorm.DB) ([]string, error) {
	if conn == nil {
		return nil, errors.New("db connection is nil")
	}
	var words []string
	if err := conn.Model(&Word{}).Order("id").Pluck("text", &words).Error; err != nil {
		return nil, err
	}
	return words, nil
}

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
