package telegram

import "strings"

// Callback action constants.
const (
	actionReview = "review"
)

// Review sub-actions.
const (
	reviewAnswer   = "answer"
	reviewComplete = "complete"
	reviewGenerate = "generate"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

func (cd callbackData) param(i int) string {
	if i < len(cd.Params) {
		return cd.Params[i]
	}
	return ""
}

func buildAnswerCallback(key string) string {
	return callbackData{Action: actionReview, Params: []string{reviewAnswer, key}}.encode()
}

func buildCompleteCallback() string {
	return callbackData{Action: actionReview, Params: []string{reviewComplete}}.encode()
}

func buildGenerateCallback() string {
	return callbackData{Action: actionReview, Params: []string{reviewGenerate}}.encode()
}
