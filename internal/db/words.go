package db

import (
	"fmt"
	"os"

	"bombparty/internal/game"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const wordBatchSize = 500

// LoadWordList reads a whitespace-separated word list and inserts the words
// that are not already stored. It returns the number of distinct valid words
// in the file.
func LoadWordList(conn *gorm.DB, path string) (int, error) {
	if conn == nil {
		return 0, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	bank, err := game.LoadWordBank(file)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	words := bank.Words()
	records := make([]Word, 0, len(words))
	for _, word := range words {
		records = append(records, Word{Text: word})
	}
	err = conn.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&records, wordBatchSize).Error
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// ListWords returns every stored word.
func ListWords(conn *gorm.DB) ([]string, error) {
	var words []string
	if err := conn.Model(&Word{}).Order("text").Pluck("text", &words).Error; err != nil {
		return nil, err
	}
	return words, nil
}

// LoadWordBank builds a word bank from the words table.
func LoadWordBank(conn *gorm.DB) (*game.WordBank, error) {
	words, err := ListWords(conn)
	if err != nil {
		return nil, err
	}
	return game.NewWordBank(words)
}
