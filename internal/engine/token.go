package engine

// Kind represents token kinds produced by a token source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindBeginObject:
		return "begin_object"
	case KindEndObject:
		return "end_object"
	case KindBeginArray:
		return "begin_array"
	case KindEndArray:
		return "end_array"
	case KindKey:
		return "key"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	default:
		return "null"
	}
}

// Token is a single streaming token with its approximate input offset.
type Token struct {
	Kind   Kind
	String string // key or string payload
	Number string // number text, interpreted by the consumer
	Bool   bool
	Offset int64
}

// TokenSource is the minimal pull interface the engine consumes.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

// SimpleIssue is the engine-level issue record. The root package converts it
// into its public Issue type.
type SimpleIssue struct {
	Code    string
	Path    string
	Message string
}

// IssueError carries a SimpleIssue through error returns.
type IssueError struct{ SimpleIssue }

func (e IssueError) Error() string { return e.SimpleIssue.Message }
