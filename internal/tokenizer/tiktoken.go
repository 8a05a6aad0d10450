package tokenizer

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"

	"github.com/custodia-labs/sherpa-cli/internal/core/ports/driven"
)

// DefaultEncoding is the encoding used by OpenAI embedding models.
const DefaultEncoding = "cl100k_base"

// Ensure Tiktoken implements the interface.
var _ driven.Tokenizer = (*Tiktoken)(nil)

var loaderOnce sync.Once

// Tiktoken counts tokens with a tiktoken BPE encoding.
// BPE ranks are loaded from the embedded offline loader, so no network access is needed.
type Tiktoken struct {
	encoding string
	tke      *tiktoken.Tiktoken
}

// NewTiktoken creates a tokenizer for the given encoding name.
// Empty encoding selects DefaultEncoding.
func NewTiktoken(encoding string) (*Tiktoken, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}

	loaderOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})

	tke, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("tokenizer: loading encoding %s: %w", encoding, err)
	}

	return &Tiktoken{
		encoding: encoding,
		tke:      tke,
	}, nil
}

// CountTokens returns the number of tokens in text.
// Special-token text is encoded as ordinary text.
func (t *Tiktoken) CountTokens(text string) int {
	if text == "" {
		return 0
	}
	return len(t.tke.Encode(text, nil, nil))
}

// Encoding returns the encoding name.
func (t *Tiktoken) Encoding() string {
	return t.encoding
}

// Estimated returns false; counts come from the real encoding.
func (t *Tiktoken) Estimated() bool {
	return false
}
