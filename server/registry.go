package server

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dekarrin/formulon"
	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
)

// handleToken is the small, genuinely serializable value behind every
// opaque handle POST /v1/compile hands back to a caller: the registry key
// and the original source text, nothing else. A compiled *formulon.Node
// cannot itself be round-tripped through rezi — per spec.md §3/§9 its
// Function/Closure nodes carry live Go func values (Fn/ClosureFn) and
// borrowed host references (Ref/Ctx), none of which rezi (or any encoder)
// can serialize off-heap. The AST therefore stays in the process-local
// Registry, keyed by the ID this token carries; rezi only ever touches this
// token, giving the handle string an honest binary encoding rather than a
// bare map key (see DESIGN.md).
type handleToken struct {
	ID      string
	Source  string
	Created int64
}

func (t handleToken) MarshalBinary() ([]byte, error) {
	var b []byte
	b = appendBinaryString(b, t.ID)
	b = appendBinaryString(b, t.Source)
	b = binary.BigEndian.AppendUint64(b, uint64(t.Created))
	return b, nil
}

func (t *handleToken) UnmarshalBinary(data []byte) error {
	id, rest, err := readBinaryString(data)
	if err != nil {
		return fmt.Errorf("handle ID: %w", err)
	}
	source, rest, err := readBinaryString(rest)
	if err != nil {
		return fmt.Errorf("handle source: %w", err)
	}
	if len(rest) < 8 {
		return fmt.Errorf("handle timestamp: unexpected end of data")
	}
	t.ID = id
	t.Source = source
	t.Created = int64(binary.BigEndian.Uint64(rest[:8]))
	return nil
}

func appendBinaryString(b []byte, s string) []byte {
	b = binary.BigEndian.AppendUint32(b, uint32(utf8.RuneCountInString(s)))
	return append(b, s...)
}

func readBinaryString(data []byte) (s string, rest []byte, err error) {
	if len(data) < 4 {
		return "", nil, fmt.Errorf("unexpected end of data")
	}
	n := int(binary.BigEndian.Uint32(data[:4]))
	remaining := string(data[4:])

	var sb strings.Builder
	for i := 0; i < n; i++ {
		r, size := utf8.DecodeRuneInString(remaining)
		if r == utf8.RuneError && size <= 1 {
			return "", nil, fmt.Errorf("malformed rune in handle string")
		}
		sb.WriteRune(r)
		remaining = remaining[size:]
	}
	return sb.String(), []byte(remaining), nil
}

func encodeHandle(t handleToken) (string, error) {
	data := rezi.EncBinary(t)
	return base64.RawURLEncoding.EncodeToString(data), nil
}

func decodeHandle(handle string) (handleToken, error) {
	data, err := base64.RawURLEncoding.DecodeString(handle)
	if err != nil {
		return handleToken{}, fmt.Errorf("malformed handle: %w", err)
	}
	var t handleToken
	if _, err := rezi.DecBinary(data, &t); err != nil {
		return handleToken{}, fmt.Errorf("malformed handle: %w", err)
	}
	return t, nil
}

// registryEntry is one live compiled AST kept by a Registry.
type registryEntry struct {
	ast     *formulon.Node
	source  string
	created time.Time
}

// Registry holds compiled ASTs produced by POST /v1/compile, indexed by the
// ID embedded in the opaque handle returned to the caller. A Registry is
// safe for concurrent use.
type Registry struct {
	ttl time.Duration

	mu      sync.Mutex
	entries map[string]*registryEntry
}

// NewRegistry returns an empty Registry. A zero ttl means handles never
// expire on their own (DELETE /v1/compile/{handle} is still required to
// free them).
func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{ttl: ttl, entries: make(map[string]*registryEntry)}
}

// Put registers ast (already compiled from source) and returns the opaque
// handle string that addresses it.
func (r *Registry) Put(source string, ast *formulon.Node) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate handle ID: %w", err)
	}

	now := time.Now()
	r.mu.Lock()
	r.entries[id.String()] = &registryEntry{ast: ast, source: source, created: now}
	r.mu.Unlock()

	return encodeHandle(handleToken{ID: id.String(), Source: source, Created: now.Unix()})
}

// Get resolves handle to its compiled AST and original source text. ok is
// false if the handle is malformed, unknown, or expired.
func (r *Registry) Get(handle string) (ast *formulon.Node, source string, ok bool) {
	tok, err := decodeHandle(handle)
	if err != nil {
		return nil, "", false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e, found := r.entries[tok.ID]
	if !found {
		return nil, "", false
	}
	if r.ttl > 0 && time.Since(e.created) > r.ttl {
		delete(r.entries, tok.ID)
		formulon.Free(e.ast)
		return nil, "", false
	}
	return e.ast, e.source, true
}

// Delete frees and forgets the AST behind handle. It reports whether a live
// entry was found.
func (r *Registry) Delete(handle string) bool {
	tok, err := decodeHandle(handle)
	if err != nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e, found := r.entries[tok.ID]
	if !found {
		return false
	}
	delete(r.entries, tok.ID)
	formulon.Free(e.ast)
	return true
}
