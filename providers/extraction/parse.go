package extraction

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/JidouAI/metrio-memory/pkg/errs"
	"github.com/JidouAI/metrio-memory/types"
)

// parseExtraction decodes a model response into memory records. A response
// that is not a JSON object with a "memories" list fails the whole call;
// individual records with an unrecognized type or importance fall back to
// "general" and the default importance instead of failing the batch.
func parseExtraction(raw string) (types.ExtractionResult, error) {
	cleaned := stripCodeFence(raw)

	var payload struct {
		Memories *[]map[string]json.RawMessage `json:"memories"`
	}
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return types.ExtractionResult{}, fmt.Errorf("%w: %v", errs.ErrExtractionParse, err)
	}
	if payload.Memories == nil {
		return types.ExtractionResult{}, fmt.Errorf("%w: response has no memories list", errs.ErrExtractionParse)
	}

	out := types.ExtractionResult{Memories: make([]types.ExtractedMemory, 0, len(*payload.Memories))}
	for _, rec := range *payload.Memories {
		content := stringField(rec, "content")
		if content == "" {
			continue
		}
		memType := stringField(rec, "memoryType")
		if memType == "" {
			memType = stringField(rec, "memory_type")
		}
		if memType == "" {
			memType = "general"
		}
		importance := intField(rec, "importance")
		if importance < 1 || importance > 10 {
			importance = types.DefaultImportance
		}
		out.Memories = append(out.Memories, types.ExtractedMemory{
			Content:    content,
			MemoryType: memType,
			Importance: importance,
		})
	}
	return out, nil
}

func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

func stringField(rec map[string]json.RawMessage, key string) string {
	raw, ok := rec[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

func intField(rec map[string]json.RawMessage, key string) int16 {
	raw, ok := rec[key]
	if !ok {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0
	}
	return int16(f)
}
