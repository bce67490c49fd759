package session

import "testing"

func TestRandomUserAgentBelongsToPool(t *testing.T) {
	for i := 0; i < 20; i++ {
		got := RandomUserAgent()
		found := false
		for _, ua := range userAgents {
			if got == ua {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("RandomUserAgent() = %q, not in the pool", got)
		}
	}
}

func TestFindChromeReportsMissingBinary(t *testing.T) {
	path, err := FindChrome()
	if err == nil && path == "" {
		t.Error("FindChrome() returned neither a path nor an error")
	}
}
