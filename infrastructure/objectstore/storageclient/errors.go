package storageclient

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Kind classifica as falhas do storage para quem precisa decidir o que fazer
type Kind int

const (
	KindOther Kind = iota
	KindBucketNotFound
	KindAlreadyExists
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindBucketNotFound:
		return "bucket_not_found"
	case KindAlreadyExists:
		return "already_exists"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "other"
	}
}

var (
	ErrBucketNotFound = errors.New("bucket not found")
	ErrAlreadyExists  = errors.New("object already exists")
	ErrUnauthorized   = errors.New("storage credentials rejected")
)

// Error é a resposta de erro do storage já classificada
type Error struct {
	Kind       Kind
	StatusCode int    // status HTTP efetivo
	Code       string // código estruturado devolvido pelo storage (ex: NoSuchBucket)
	Message    string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("storage %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("storage %d: %s", e.StatusCode, e.Message)
}

// Is permite errors.Is(err, ErrBucketNotFound) e afins
func (e *Error) Is(target error) bool {
	switch target {
	case ErrBucketNotFound:
		return e.Kind == KindBucketNotFound
	case ErrAlreadyExists:
		return e.Kind == KindAlreadyExists
	case ErrUnauthorized:
		return e.Kind == KindUnauthorized
	}
	return false
}

// KindOf retorna KindOther para erros que não vieram do storage
func KindOf(err error) Kind {
	var storageErr *Error
	if errors.As(err, &storageErr) {
		return storageErr.Kind
	}
	return KindOther
}

type errorResponse struct {
	StatusCode any    `json:"statusCode"`
	Code       string `json:"code"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

// parseError lê o corpo de erro. O storage às vezes responde HTTP 400 com
// statusCode "404" no corpo, então o status do corpo tem precedência.
func parseError(httpStatus int, body []byte) *Error {
	var resp errorResponse
	_ = json.Unmarshal(body, &resp)

	status := httpStatus
	if s := bodyStatus(resp.StatusCode); s != 0 {
		status = s
	}

	code := resp.Code
	if code == "" {
		code = resp.Error
	}

	message := resp.Message
	if message == "" {
		message = resp.Error
	}
	if message == "" {
		message = strings.TrimSpace(string(body))
	}
	if message == "" {
		message = http.StatusText(status)
	}

	return &Error{
		Kind:       classify(status, code),
		StatusCode: status,
		Code:       code,
		Message:    message,
	}
}

func classify(status int, code string) Kind {
	switch code {
	case "NoSuchBucket", "Bucket not found":
		return KindBucketNotFound
	case "Duplicate", "KeyAlreadyExists", "ResourceAlreadyExists", "BucketAlreadyExists":
		return KindAlreadyExists
	case "InvalidJWT", "AccessDenied", "Unauthorized":
		return KindUnauthorized
	}

	switch status {
	case http.StatusConflict:
		return KindAlreadyExists
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindUnauthorized
	}

	return KindOther
}

func bodyStatus(v any) int {
	switch s := v.(type) {
	case string:
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0
		}
		return n
	case float64:
		return int(s)
	}
	return 0
}
