package demon

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Difficulty is the tier a level can be in. It is informational only and does
// not feed the score function.
type Difficulty string

const (
	DifficultySilent    Difficulty = "silent"
	DifficultyLegendary Difficulty = "legendary"
	DifficultyExtreme   Difficulty = "extreme"
	DifficultyMythical  Difficulty = "mythical"
	DifficultyInsane    Difficulty = "insane"
	DifficultyHard      Difficulty = "hard"
	DifficultyMedium    Difficulty = "medium"
	DifficultyEasy      Difficulty = "easy"
	DifficultyBeginner  Difficulty = "beginner"
)

// Difficulties returns the closed set of accepted difficulty values.
func Difficulties() []Difficulty {
	return []Difficulty{
		DifficultySilent,
		DifficultyLegendary,
		DifficultyExtreme,
		DifficultyMythical,
		DifficultyInsane,
		DifficultyHard,
		DifficultyMedium,
		DifficultyEasy,
		DifficultyBeginner,
	}
}

// InvalidDifficultyError is returned when a token is outside the accepted set.
type InvalidDifficultyError struct {
	Token string
}

func (e InvalidDifficultyError) Error() string {
	tokens := make([]string, 0, len(Difficulties()))
	for _, d := range Difficulties() {
		tokens = append(tokens, string(d))
	}
	return fmt.Sprintf("invalid difficulty %q, expected one of: %s", e.Token, strings.Join(tokens, ", "))
}

// ParseDifficulty maps a lowercase token onto a Difficulty.
func ParseDifficulty(token string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(token))
	switch d {
	case DifficultySilent, DifficultyLegendary, DifficultyExtreme, DifficultyMythical,
		DifficultyInsane, DifficultyHard, DifficultyMedium, DifficultyEasy, DifficultyBeginner:
		return d, nil
	}
	return "", InvalidDifficultyError{Token: token}
}

func (d Difficulty) String() string {
	return string(d)
}

func (d Difficulty) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(d))
}

func (d *Difficulty) UnmarshalJSON(data []byte) error {
	var token string
	if err := json.Unmarshal(data, &token); err != nil {
		return err
	}
	parsed, err := ParseDifficulty(token)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
