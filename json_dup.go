package gviz

import (
	"io"

	eng "github.com/reoring/gviz/internal/engine"
)

// DetectJSONDuplicateKeysBytes reports duplicate object keys in data without
// building a Bag. maxIssues < 0 means unlimited.
func DetectJSONDuplicateKeysBytes(data []byte, strict Strictness, maxIssues int) (Issues, error) {
	return detectDuplicates(JSONBytes(data), strict, maxIssues)
}

// DetectJSONDuplicateKeysReader is DetectJSONDuplicateKeysBytes over a stream;
// the reader is consumed.
func DetectJSONDuplicateKeysReader(r io.Reader, strict Strictness, maxIssues int) (Issues, error) {
	return detectDuplicates(JSONReader(r), strict, maxIssues)
}

func detectDuplicates(src Source, strict Strictness, maxIssues int) (Issues, error) {
	si, err := eng.DetectDuplicateKeys(src, toEngineDup(strict.OnDuplicateKey), maxIssues)
	if err != nil {
		return nil, toIssues(err, src.Location())
	}
	var iss Issues
	for _, s := range si {
		iss = AppendIssues(iss, Issue{Code: s.Code, Path: s.Path, Message: s.Message, Offset: -1})
	}
	return iss, nil
}
