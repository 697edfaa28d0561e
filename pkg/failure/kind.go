package failure

/*
Kind is a closed, canonical classification of every failure surfaced by the
service.

Rules:
  - Every classified error carries exactly one Kind and exactly one Code
    drawn from that Kind's code set.
  - Code sets are disjoint, so a Code alone identifies its Kind.
  - Lookups in this table never fail. Anything outside the table resolves
    to KindUnknown / CodeUnknown.

If a failure does not clearly match a defined kind, KindUnknown MUST be used.
*/
type Kind int

const (
	KindUnknown Kind = iota
	KindFile
	KindDatabase
	KindModel
	KindQuery
	KindValidation
	KindConfiguration
)

// Code is a stable, machine-readable error identifier exposed on the wire.
type Code string

const (
	// file access / format
	CodeFileNotFound       Code = "FILE_NOT_FOUND"
	CodeFileUploadError    Code = "FILE_UPLOAD_ERROR"
	CodePDFProcessingError Code = "PDF_PROCESSING_ERROR"

	// vector store
	CodeDBConnectionError Code = "DB_CONNECTION_ERROR"
	CodeDBOperationError  Code = "DB_OPERATION_ERROR"
	CodeVectorDBError     Code = "VECTORDB_ERROR"
	CodeDocumentNotFound  Code = "DOCUMENT_NOT_FOUND"

	// model initialization / inference
	CodeModelInitializationError Code = "MODEL_INITIALIZATION_ERROR"
	CodeEmbeddingError           Code = "EMBEDDING_ERROR"
	CodeLLMError                 Code = "LLM_ERROR"
	CodeAPIKeyError              Code = "API_KEY_ERROR"
	CodeRateLimitError           Code = "RATE_LIMIT_ERROR"

	// chain / retrieval
	CodeQueryError     Code = "QUERY_ERROR"
	CodeChainError     Code = "CHAIN_ERROR"
	CodeRetrievalError Code = "RETRIEVAL_ERROR"

	// caller input
	CodeValidationError   Code = "VALIDATION_ERROR"
	CodeInvalidFileFormat Code = "INVALID_FILE_FORMAT"
	CodeFileSizeExceeded  Code = "FILE_SIZE_EXCEEDED"

	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	CodeUnknown             Code = "UNKNOWN_ERROR"
	CodeInternalServerError Code = "INTERNAL_SERVER_ERROR"
)

type kindEntry struct {
	name        string
	defaultCode Code
	codes       []Code
}

var kindTable = map[Kind]kindEntry{
	KindFile: {
		name:        "FileError",
		defaultCode: CodePDFProcessingError,
		codes:       []Code{CodeFileNotFound, CodeFileUploadError, CodePDFProcessingError},
	},
	KindDatabase: {
		name:        "DatabaseError",
		defaultCode: CodeDBOperationError,
		codes:       []Code{CodeDBConnectionError, CodeDBOperationError, CodeVectorDBError, CodeDocumentNotFound},
	},
	KindModel: {
		name:        "ModelError",
		defaultCode: CodeLLMError,
		codes: []Code{
			CodeModelInitializationError,
			CodeEmbeddingError,
			CodeLLMError,
			CodeAPIKeyError,
			CodeRateLimitError,
		},
	},
	KindQuery: {
		name:        "QueryError",
		defaultCode: CodeQueryError,
		codes:       []Code{CodeQueryError, CodeChainError, CodeRetrievalError},
	},
	KindValidation: {
		name:        "ValidationError",
		defaultCode: CodeValidationError,
		codes:       []Code{CodeValidationError, CodeInvalidFileFormat, CodeFileSizeExceeded},
	},
	KindConfiguration: {
		name:        "ConfigurationError",
		defaultCode: CodeConfigurationError,
		codes:       []Code{CodeConfigurationError},
	},
	KindUnknown: {
		name:        "Unknown",
		defaultCode: CodeUnknown,
		codes:       []Code{CodeUnknown, CodeInternalServerError},
	},
}

var codeIndex = func() map[Code]Kind {
	idx := make(map[Code]Kind)
	for kind, entry := range kindTable {
		for _, code := range entry.codes {
			idx[code] = kind
		}
	}
	return idx
}()

// Kinds lists every kind in declaration order.
func Kinds() []Kind {
	return []Kind{
		KindUnknown,
		KindFile,
		KindDatabase,
		KindModel,
		KindQuery,
		KindValidation,
		KindConfiguration,
	}
}

func (k Kind) String() string {
	entry, ok := kindTable[k]
	if !ok {
		return kindTable[KindUnknown].name
	}
	return entry.name
}

// Known reports whether k is a member of the closed enumeration.
func (k Kind) Known() bool {
	_, ok := kindTable[k]
	return ok
}

// IsValid reports whether code belongs to kind's code set.
func IsValid(kind Kind, code Code) bool {
	owner, ok := codeIndex[code]
	return ok && owner == kind && kind.Known()
}

// DefaultCode returns the code used when a failure of the given kind
// carries no (valid) code. Kinds outside the table get CodeUnknown.
func DefaultCode(kind Kind) Code {
	entry, ok := kindTable[kind]
	if !ok {
		return CodeUnknown
	}
	return entry.defaultCode
}

// KindOf resolves the kind owning code, or KindUnknown.
func KindOf(code Code) Kind {
	kind, ok := codeIndex[code]
	if !ok {
		return KindUnknown
	}
	return kind
}

// Codes returns a copy of the code set owned by kind.
func Codes(kind Kind) []Code {
	entry, ok := kindTable[kind]
	if !ok {
		return nil
	}
	codes := make([]Code, len(entry.codes))
	copy(codes, entry.codes)
	return codes
}

// normalize folds an unknown kind into KindUnknown and replaces a code that
// does not belong to the kind with the kind's default.
func normalize(kind Kind, code Code) (Kind, Code) {
	if !kind.Known() {
		kind = KindUnknown
	}
	if !IsValid(kind, code) {
		code = DefaultCode(kind)
	}
	return kind, code
}
