package reasoning

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	errx "github.com/aura-uw-poc/server/internal/core/error"
	"github.com/aura-uw-poc/server/internal/underwriting/model"
	logx "github.com/aura-uw-poc/server/pkg/logger"
)

// basic safety limits to avoid pathological inputs
const (
	maxContentLen = 128 * 1024 // 128KB
	maxErrDetails = 5          // schema violations reported per failure
)

// turnResultSchema is the fixed contract for a reasoning-service response.
// A response missing a required key, or carrying an unknown agent status, is
// malformed and fatal for the turn.
const turnResultSchema = `{
  "type": "object",
  "required": ["agentActions", "nextQuestion", "state"],
  "properties": {
    "agentActions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["agentName", "status", "reasoning"],
        "properties": {
          "agentName": {"type": "string"},
          "status": {"type": "string", "enum": ["SUCCESS", "WARNING", "INFO", "PENDING"]},
          "decision": {"type": "string"},
          "reasoning": {"type": "string"}
        }
      }
    },
    "nextQuestion": {"type": "string"},
    "options": {"type": "array", "items": {"type": "string"}},
    "state": {
      "type": "object",
      "properties": {
        "age": {"type": "integer"},
        "gender": {"type": "string"},
        "income": {"type": "string"},
        "amount": {"type": "number"},
        "term": {"type": "integer"},
        "occupation": {"type": "string"},
        "smokingStatus": {"type": "string"},
        "diabetes": {"type": "string"},
        "hbA1c": {"type": "number"},
        "bmi": {"type": "number"},
        "riskRating": {"type": "string"},
        "riskMultiplier": {"type": "number"},
        "annualPremium": {"type": "number"}
      }
    },
    "showQuote": {"type": "boolean"},
    "complete": {"type": "boolean"}
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(turnResultSchema)

// ParseTurnResult validates raw model output against the fixed response
// schema and decodes it. Any violation yields errx.ErrMalformedResponse;
// malformed responses are never retried.
func ParseTurnResult(content string) (tr *model.TurnResult, err error) {
	// panic safety
	defer func() {
		if r := recover(); r != nil {
			logx.Error().Str("component", "turn_parser").Msgf("panic recovered: %v", r)
			err = errx.New(fmt.Errorf("turn parser panic"), http.StatusInternalServerError, errx.SystemErrorMessage)
			tr = nil
		}
	}()

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: empty content", errx.ErrMalformedResponse)
	}
	if len(content) > maxContentLen {
		return nil, fmt.Errorf("%w: content exceeds %d bytes", errx.ErrMalformedResponse, maxContentLen)
	}
	content = stripCodeFence(content)

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewStringLoader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errx.ErrMalformedResponse, err)
	}
	if !result.Valid() {
		details := make([]string, 0, maxErrDetails)
		for i, desc := range result.Errors() {
			if i >= maxErrDetails {
				break
			}
			details = append(details, desc.String())
		}
		logx.Warn().
			Str("component", "turn_parser").
			Strs("violations", details).
			Msg("reasoning response failed schema validation")
		return nil, fmt.Errorf("%w: %s", errx.ErrMalformedResponse, strings.Join(details, "; "))
	}

	var out model.TurnResult
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", errx.ErrMalformedResponse, err)
	}
	return &out, nil
}

// stripCodeFence removes a surrounding markdown fence some models emit even
// when told not to.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
