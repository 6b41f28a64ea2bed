package helper

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// GenerateUUID creates a random unique UUID string
func GenerateUUID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate UUID: %v", err)
	}
	return id.String(), nil
}

// QuestionID builds a short question identifier like "q_3_1a2b3c4d".
// n is the 1-based position of the question within its batch.
func QuestionID(n int) string {
	return fmt.Sprintf("q_%d_%s", n, uuid.NewString()[:8])
}

// ChunkID builds a chunk identifier scoped to its document.
func ChunkID(documentID string, index int) string {
	return fmt.Sprintf("doc_%s_chunk_%d_%s", documentID, index, uuid.NewString()[:8])
}

// pretty print
func PrettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Warn().Msg("Error pretty printing")
	}
	fmt.Println(string(b))
}
