package service

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/aliskhannn/brain-recall/internal/domain/entities"
)

var errNotEnoughDistractors = errors.New("generated options are not distinct")

// OptionGenerator lays out a drafted question as four keyed options.
type OptionGenerator struct {
	validator *OptionValidator

	mu  sync.Mutex
	rng *rand.Rand
}

// NewOptionGenerator creates a new option generator.
func NewOptionGenerator(validator *OptionValidator) *OptionGenerator {
	return &OptionGenerator{
		validator: validator,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// GenerateOptions places the correct answer under a random key and fills the
// other keys with distinct distractors in random order.
func (g *OptionGenerator) GenerateOptions(correct string, distractors []string) ([]entities.QuestionOption, entities.OptionKey, error) {
	wrong := g.validator.Distinct(correct, distractors)
	if len(wrong) < len(entities.OptionKeys)-1 {
		return nil, "", errNotEnoughDistractors
	}
	wrong = wrong[:len(entities.OptionKeys)-1]

	g.mu.Lock()
	g.rng.Shuffle(len(wrong), func(i, j int) { wrong[i], wrong[j] = wrong[j], wrong[i] })
	correctIndex := g.rng.Intn(len(entities.OptionKeys))
	g.mu.Unlock()

	options := make([]entities.QuestionOption, len(entities.OptionKeys))
	wrongIdx := 0
	for i, key := range entities.OptionKeys {
		text := correct
		if i != correctIndex {
			text = wrong[wrongIdx]
			wrongIdx++
		}
		options[i] = entities.QuestionOption{Key: key, Text: text}
	}

	return options, entities.OptionKeys[correctIndex], nil
}
