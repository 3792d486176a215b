package food

import (
	"regexp"
	"strconv"
	"strings"
)

var leadingNumber = regexp.MustCompile(`^(\d+(?:\.\d+)?)`)

// Details is the search response for one food, with the macros pulled out
// of the nutrient breakdown.
type Details struct {
	Name                     string     `json:"name"`
	NumCalories              string     `json:"numCalories"`
	Carbs                    float64    `json:"carbs"`
	Protein                  float64    `json:"protein"`
	Fat                      float64    `json:"fat"`
	DigestionTime            string     `json:"digestionTime"`
	TimeToEat                string     `json:"timeToEat"`
	DigestionComplexity      string     `json:"digestionComplexity"`
	AdditionalDigestionNotes string     `json:"additionalDigestionNotes"`
	Benefits                 []Benefit  `json:"benefits"`
	Cautions                 []Caution  `json:"cautions"`
	NutrientBreakdown        []Nutrient `json:"nutrientBreakdown"`
}

func NewDetails(f *Food) Details {
	carbs, protein, fat := Macros(f.NutrientBreakdown)
	return Details{
		Name:                     f.Name,
		NumCalories:              f.NumCalories,
		Carbs:                    carbs,
		Protein:                  protein,
		Fat:                      fat,
		DigestionTime:            f.DigestionTime,
		TimeToEat:                f.TimeToEat,
		DigestionComplexity:      f.DigestionComplexity,
		AdditionalDigestionNotes: f.AdditionalDigestionNotes,
		Benefits:                 nonNil(f.Benefits),
		Cautions:                 nonNil(f.Cautions),
		NutrientBreakdown:        nonNil(f.NutrientBreakdown),
	}
}

// Macros extracts grams of carbohydrate, protein and total fat. Saturated
// fat rows are skipped; when several rows match, the last one wins.
func Macros(rows []Nutrient) (carbs, protein, fat float64) {
	for _, row := range rows {
		name := strings.ToLower(row.Nutrient)
		value := LeadingNumber(row.Info)

		switch {
		case strings.Contains(name, "carb"):
			carbs = value
		case strings.Contains(name, "protein"):
			protein = value
		case strings.Contains(name, "fat") && !strings.Contains(name, "saturated"):
			fat = value
		}
	}
	return carbs, protein, fat
}

// LeadingNumber parses the number that starts info, or 0 if there is none
func LeadingNumber(info string) float64 {
	match := leadingNumber.FindStringSubmatch(info)
	if match == nil {
		return 0
	}
	v, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0
	}
	return v
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
