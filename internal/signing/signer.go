package signing

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-cms-graph/internal/logging"
	"github.com/goliatone/go-cms-graph/internal/runtimeconfig"
	"github.com/goliatone/go-cms-graph/pkg/interfaces"
)

// Scheme prefixes every header value produced by the signer.
const Scheme = "epi-hmac"

// NonceSize is the number of random bytes in a nonce (32 hex characters).
const NonceSize = 16

const (
	textCodeConfigInvalid = "GRAPH_CONFIG_INVALID"
	textCodeNonceFailed   = "GRAPH_NONCE_FAILED"
)

var (
	// ErrMalformedHeader is returned by ParseAuthHeader for values outside the epi-hmac grammar.
	ErrMalformedHeader = errors.New("signing: malformed epi-hmac header")
	// ErrSignatureMismatch is returned by Verify when the recomputed signature differs.
	ErrSignatureMismatch = errors.New("signing: signature mismatch")
)

// SignedRequest is the canonical input to a signature. Build a fresh one per
// outgoing call; timestamp and nonce must never be reused.
type SignedRequest struct {
	Method    string
	Path      string
	Body      []byte
	Timestamp int64
	Nonce     string
}

// Signer computes epi-hmac headers for a single app key. It holds no mutable
// state and is safe for concurrent use.
type Signer struct {
	appKey string
	key    []byte
	now    func() time.Time
	random io.Reader
	logger interfaces.Logger
}

// Option customises a Signer.
type Option func(*Signer)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Signer) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRandom overrides the nonce source. Defaults to crypto/rand.
func WithRandom(r io.Reader) Option {
	return func(s *Signer) {
		if r != nil {
			s.random = r
		}
	}
}

// WithLogger sets the logger used for nonce failures.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Signer) {
		s.logger = logging.EnsureLogger(logger)
	}
}

// NewSigner validates cfg and decodes its secret. Missing credentials and a
// secret that is not valid base64 are configuration errors; there is no
// fallback key.
func NewSigner(cfg runtimeconfig.GraphConfig, opts ...Option) (*Signer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "graph signer configuration invalid").
			WithTextCode(textCodeConfigInvalid)
	}
	key, err := cfg.DecodedSecret()
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "graph signer configuration invalid").
			WithTextCode(textCodeConfigInvalid)
	}

	s := &Signer{
		appKey: strings.TrimSpace(cfg.AppKey),
		key:    key,
		now:    time.Now,
		random: rand.Reader,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// AppKey returns the application key embedded in every header.
func (s *Signer) AppKey() string {
	return s.appKey
}

// NewRequest stamps a SignedRequest with the current time and a fresh nonce.
func (s *Signer) NewRequest(method, pathWithQuery string, body []byte) (SignedRequest, error) {
	nonce, err := s.nonce()
	if err != nil {
		return SignedRequest{}, err
	}
	return SignedRequest{
		Method:    method,
		Path:      pathWithQuery,
		Body:      body,
		Timestamp: s.now().UnixMilli(),
		Nonce:     nonce,
	}, nil
}

// AuthHeader signs a request with a fresh timestamp and nonce and returns the
// header value.
func (s *Signer) AuthHeader(method, pathWithQuery string, body []byte) (string, error) {
	req, err := s.NewRequest(method, pathWithQuery, body)
	if err != nil {
		return "", err
	}
	return s.Header(req), nil
}

// Header renders the header value for an already stamped request.
func (s *Signer) Header(req SignedRequest) string {
	return Scheme + " " + s.appKey + ":" + strconv.FormatInt(req.Timestamp, 10) + ":" + req.Nonce + ":" + s.Sign(req)
}

// Sign returns the base64 signature for req. The result depends only on req
// and the signer's credentials.
func (s *Signer) Sign(req SignedRequest) string {
	return Signature(s.key, s.appKey, req)
}

// Verify recomputes the signature carried by header against the request parts
// and compares in constant time.
func (s *Signer) Verify(header, method, pathWithQuery string, body []byte) error {
	parsed, err := ParseAuthHeader(header)
	if err != nil {
		return err
	}
	if parsed.AppKey != s.appKey {
		return fmt.Errorf("%w: unknown app key", ErrSignatureMismatch)
	}
	want := s.Sign(SignedRequest{
		Method:    method,
		Path:      pathWithQuery,
		Body:      body,
		Timestamp: parsed.Timestamp,
		Nonce:     parsed.Nonce,
	})
	if !hmac.Equal([]byte(want), []byte(parsed.Signature)) {
		return ErrSignatureMismatch
	}
	return nil
}

func (s *Signer) nonce() (string, error) {
	buf := make([]byte, NonceSize)
	if _, err := io.ReadFull(s.random, buf); err != nil {
		s.logger.Error("graph.signing.nonce_failed", "error", err)
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "graph signer could not read nonce").
			WithTextCode(textCodeNonceFailed)
	}
	return hex.EncodeToString(buf), nil
}

// Signature implements the canonical epi-hmac algorithm over explicit inputs.
func Signature(key []byte, appKey string, req SignedRequest) string {
	digest := md5.Sum(req.Body)

	var input strings.Builder
	input.WriteString(appKey)
	input.WriteString(strings.ToUpper(req.Method))
	input.WriteString(req.Path)
	input.WriteString(strconv.FormatInt(req.Timestamp, 10))
	input.WriteString(req.Nonce)
	input.WriteString(base64.StdEncoding.EncodeToString(digest[:]))

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(input.String()))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// ParsedHeader is the decomposed form of an epi-hmac header.
type ParsedHeader struct {
	AppKey    string
	Timestamp int64
	Nonce     string
	Signature string
}

// ParseAuthHeader splits a header value into its four fields. Standard base64
// has no colons, so the value splits cleanly.
func ParseAuthHeader(value string) (ParsedHeader, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(value), Scheme+" ")
	if !ok {
		return ParsedHeader{}, ErrMalformedHeader
	}
	parts := strings.Split(rest, ":")
	if len(parts) != 4 {
		return ParsedHeader{}, ErrMalformedHeader
	}
	ts, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return ParsedHeader{}, fmt.Errorf("%w: timestamp: %v", ErrMalformedHeader, err)
	}
	if len(parts[2]) != NonceSize*2 {
		return ParsedHeader{}, fmt.Errorf("%w: nonce length", ErrMalformedHeader)
	}
	if _, err := hex.DecodeString(parts[2]); err != nil {
		return ParsedHeader{}, fmt.Errorf("%w: nonce: %v", ErrMalformedHeader, err)
	}
	if parts[0] == "" || parts[3] == "" {
		return ParsedHeader{}, ErrMalformedHeader
	}
	return ParsedHeader{
		AppKey:    parts[0],
		Timestamp: ts,
		Nonce:     parts[2],
		Signature: parts[3],
	}, nil
}
