// Package prompt implements the domain.Prompter interface on top of
// survey, plus the styled terminal output the commands print.
package prompt

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/stevendejongnl/harv/internal/domain"
)

// Survey implements domain.Prompter for an interactive terminal.
type Survey struct{}

// NewSurvey creates a Survey prompter.
func NewSurvey() *Survey {
	return &Survey{}
}

// Select picks one option by index.
func (s *Survey) Select(title string, options []string) (int, error) {
	var answer survey.OptionAnswer
	err := survey.AskOne(&survey.Select{
		Message: title,
		Options: options,
	}, &answer)
	if err != nil {
		return 0, mapErr(err)
	}
	return answer.Index, nil
}

// FuzzySelect picks one option from a type-to-filter list. Survey's
// Select filters as the user types, so the same prompt serves both.
func (s *Survey) FuzzySelect(title string, options []string) (int, error) {
	var answer survey.OptionAnswer
	err := survey.AskOne(&survey.Select{
		Message:  title,
		Options:  options,
		PageSize: 12,
	}, &answer)
	if err != nil {
		return 0, mapErr(err)
	}
	return answer.Index, nil
}

// Confirm asks a yes/no question.
func (s *Survey) Confirm(title string, def bool) (bool, error) {
	var answer bool
	err := survey.AskOne(&survey.Confirm{
		Message: title,
		Default: def,
	}, &answer)
	if err != nil {
		return false, mapErr(err)
	}
	return answer, nil
}

// MultiSelect picks any number of options; defaults pre-checks entries.
func (s *Survey) MultiSelect(title string, options []string, defaults []bool) ([]int, error) {
	var preChecked []string
	for i, checked := range defaults {
		if i < len(options) && checked {
			preChecked = append(preChecked, options[i])
		}
	}

	var answers []survey.OptionAnswer
	err := survey.AskOne(&survey.MultiSelect{
		Message: title,
		Options: options,
		Default: preChecked,
	}, &answers)
	if err != nil {
		return nil, mapErr(err)
	}

	indexes := make([]int, 0, len(answers))
	for _, a := range answers {
		indexes = append(indexes, a.Index)
	}
	return indexes, nil
}

// Input captures a single line of text.
func (s *Survey) Input(title, def string) (string, error) {
	var answer string
	err := survey.AskOne(&survey.Input{
		Message: title,
		Default: def,
	}, &answer)
	if err != nil {
		return "", mapErr(err)
	}
	return answer, nil
}

// Multiline captures free-form multi-line text.
func (s *Survey) Multiline(title string) (string, error) {
	var answer string
	err := survey.AskOne(&survey.Multiline{
		Message: title,
	}, &answer)
	if err != nil {
		return "", mapErr(err)
	}
	return answer, nil
}

func mapErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return domain.ErrUserCancelled
	}
	return fmt.Errorf("prompt failed: %w", err)
}
