package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/lastochkinroman/FurnitureOrderAI/internal/models"
)

// ErrNoOrderData is returned whenever the model reply yields no usable
// order object: no JSON found, malformed JSON, a non-object payload, or a
// field of an unexpected type.
var ErrNoOrderData = errors.New("failed to parse order data")

// ExtractOrder sends the instruction prompt plus the raw order text to the
// model and parses the first balanced-brace JSON object of the reply. The
// raw reply is returned alongside for auditing.
func (c *Client) ExtractOrder(ctx context.Context, prompt, text string) (models.OrderData, string, error) {
	raw, err := c.Chat(ctx, prompt+"\n\n"+text)
	if err != nil {
		return nil, "", err
	}

	order, err := ParseOrderResponse(raw)
	if err != nil {
		return nil, raw, err
	}
	return order, raw, nil
}

// ParseOrderResponse extracts the order object from a free-form model
// reply. The model may prepend conversational filler, so the parser scans
// for the first balanced-brace span and decodes only that. Field types are
// strict: "address" must be a string, quantities must be integral numbers
// or integral numeric strings; anything else rejects the whole reply.
func ParseOrderResponse(raw string) (models.OrderData, error) {
	span, ok := firstJSONObject(raw)
	if !ok {
		return nil, ErrNoOrderData
	}

	dec := json.NewDecoder(strings.NewReader(span))
	dec.UseNumber()
	var obj map[string]interface{}
	if err := dec.Decode(&obj); err != nil {
		return nil, ErrNoOrderData
	}

	order := make(models.OrderData, len(obj))
	for key, v := range obj {
		switch key {
		case "address", "date":
			s, ok := v.(string)
			if !ok {
				return nil, ErrNoOrderData
			}
			order[key] = s
		default:
			n, ok := integralValue(v)
			if !ok {
				return nil, ErrNoOrderData
			}
			order[key] = n
		}
	}
	return order, nil
}

// firstJSONObject returns the first balanced-brace span of s, honoring
// string literals and escapes.
func firstJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

func integralValue(v interface{}) (int, bool) {
	switch val := v.(type) {
	case json.Number:
		n, err := val.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
