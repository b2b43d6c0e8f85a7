package engine

import (
	"errors"
	"io"
)

// DetectDuplicateKeys drains src and returns every duplicate-key issue found.
// maxIssues < 0 means unlimited, 0 disables collection and > 0 caps the result;
// when the cap is hit a trailing "truncated" issue is appended.
func DetectDuplicateKeys(src TokenSource, onDup DuplicateStrictness, maxIssues int) ([]SimpleIssue, error) {
	if onDup == DupIgnore || maxIssues == 0 {
		return nil, nil
	}
	var issues []SimpleIssue
	full := false
	sink := func(si SimpleIssue) {
		if full {
			return
		}
		issues = append(issues, si)
		if maxIssues > 0 && len(issues) >= maxIssues {
			issues = append(issues, SimpleIssue{Code: "truncated", Path: "/", Message: "max issues reached"})
			full = true
		}
	}
	// DupWarn keeps the stream going so every duplicate is seen.
	enforced := WrapWithEnforcement(src, EnforceOptions{OnDuplicate: DupWarn, IssueSink: sink})
	for !full {
		_, err := enforced.NextToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return issues, err
		}
		if onDup == DupError && len(issues) > 0 {
			break
		}
	}
	return issues, nil
}
