package phonepe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChecksumPayVector(t *testing.T) {
	// sha256("cGF5bG9hZA==" + "/pg/v1/pay" + "test-salt"), suffixed with
	// the salt index.
	got := checksum("cGF5bG9hZA==", "/pg/v1/pay", "test-salt", "1")
	require.Equal(t, "212a0773a4174789d992db8bc57ade3be5c47126a7263c62267a98e06650415b###1", got)
}

func TestChecksumStatusVector(t *testing.T) {
	// Status calls sign the bare path with no payload.
	got := checksum("", "/pg/v1/status/MERCHANT1/txn-abc", "test-salt", "2")
	require.Equal(t, "ed20467bb390e1ef1b666dcf0b4a271f6a693a0df56e44decf30713125c70120###2", got)
}

func TestChecksumDependsOnSalt(t *testing.T) {
	a := checksum("cGF5bG9hZA==", "/pg/v1/pay", "salt-a", "1")
	b := checksum("cGF5bG9hZA==", "/pg/v1/pay", "salt-b", "1")
	require.NotEqual(t, a, b)
}
