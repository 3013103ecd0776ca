package billing

import "testing"

func TestIsSuccessStatus(t *testing.T) {
	for _, status := range []string{"success", "SUCCESS", " Success "} {
		if !isSuccessStatus(status) {
			t.Fatalf("expected status %q to be success", status)
		}
	}
	for _, status := range []string{"failure", "pending", "userCancelled", ""} {
		if isSuccessStatus(status) {
			t.Fatalf("expected status %q to not be success", status)
		}
	}
}

func TestNormalizeStatus(t *testing.T) {
	if got := normalizeStatus(" Failure "); got != "failure" {
		t.Fatalf("normalizeStatus = %q, want %q", got, "failure")
	}
}
