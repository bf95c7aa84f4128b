// Package salary turns free-text pay statements into annualized figures.
package salary

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/amishk599/jobsift/internal/model"
)

var (
	// Leftmost numeric token: grouped thousands first so "120,001" is one token.
	rateRegex     = regexp.MustCompile(`\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:\.\d+)?`)
	intervalRegex = regexp.MustCompile(`(?i)biweek|hour|day|week|month|year|annual`)
)

// Working hours per year: 8 hours x 5 days x 52 weeks.
const hoursPerYear = 8 * 5 * 52

var multipliers = map[string]float64{
	"hour":   hoursPerYear,
	"week":   52,
	"biweek": 26,
	"month":  12,
	"year":   1,
	"annual": 1,
}

// Rate returns the first numeric token in text with thousands separators
// removed, e.g. "$25 - $40 an hour" yields "25".
func Rate(text string) (string, error) {
	m := rateRegex.FindString(text)
	if m == "" {
		return "", &model.ParseError{Input: text, Reason: "no numeric rate"}
	}
	return strings.ReplaceAll(m, ",", ""), nil
}

// Interval returns the first pay interval keyword in text, lowercased.
func Interval(text string) (string, error) {
	m := intervalRegex.FindString(text)
	if m == "" {
		return "", &model.ParseError{Input: text, Reason: "no pay interval"}
	}
	return strings.ToLower(m), nil
}

// Annualize converts a rate paid per interval into a yearly figure.
func Annualize(rate, interval string) (float64, error) {
	value, err := strconv.ParseFloat(rate, 64)
	if err != nil {
		return 0, &model.ParseError{Input: rate, Reason: "rate is not numeric"}
	}
	mult, ok := multipliers[interval]
	if !ok {
		return 0, &model.ParseError{Input: interval, Reason: "unsupported pay interval"}
	}
	return value * mult, nil
}

// Parse annualizes a pay statement.
func Parse(text string) (float64, error) {
	rate, err := Rate(text)
	if err != nil {
		return 0, err
	}
	interval, err := Interval(text)
	if err != nil {
		return 0, err
	}
	annual, err := Annualize(rate, interval)
	if err != nil {
		var pe *model.ParseError
		if errors.As(err, &pe) {
			return 0, &model.ParseError{Input: text, Reason: pe.Reason}
		}
		return 0, err
	}
	return annual, nil
}

// Sufficient reports whether the annualized pay in text meets floor.
// A posting without pay information is always sufficient. A statement that
// cannot be parsed is insufficient and the parse error is returned for logging.
func Sufficient(text string, floor float64) (bool, error) {
	if text == model.NoCompensation {
		return true, nil
	}
	annual, err := Parse(text)
	if err != nil {
		return false, err
	}
	return annual >= floor, nil
}
