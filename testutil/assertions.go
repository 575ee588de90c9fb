package testutil

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// RequireEqualJSON compares the JSON encoding of act against exp, ignoring
// key order and whitespace.
func RequireEqualJSON(t *testing.T, exp string, act interface{}) {
	actJ, err := json.Marshal(act)
	require.NoError(t, err)
	require.JSONEq(t, exp, string(actJ))
}

// RequireErrorIs asserts that target is somewhere in err's wrap chain.
func RequireErrorIs(t *testing.T, err error, target error) {
	require.Error(t, err)
	require.True(t, errors.Is(err, target), "expected %v in chain of %v", target, err)
}
