package output

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dotcommander/kvd/internal/models"
)

// Compile-time check: models.RecoverableError must satisfy the local
// recoverableError interface.
var _ recoverableError = (models.RecoverableError)(nil)

func TestSuccessAndError(t *testing.T) {
	s := Success(map[string]string{"k": "v"})
	require.Equal(t, "v1", s.SchemaVersion)
	require.True(t, s.Success)
	require.NotNil(t, s.Data)
	require.Empty(t, s.Error)

	e := Error(errors.New("boom"))
	require.Equal(t, "v1", e.SchemaVersion)
	require.False(t, e.Success)
	require.Nil(t, e.Data)
	require.Equal(t, "boom", e.Error)
	require.Empty(t, e.ErrorCode)
	require.Nil(t, e.ErrorContext)
	require.Empty(t, e.SuggestedAction)
}

func TestPrintWith_CompactJSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{Writer: &buf, Pretty: false}

	err := PrintWith(cfg, map[string]string{"hello": "world"})
	require.NoError(t, err)
	require.Equal(t, "{\"hello\":\"world\"}\n", buf.String())
}

func TestPrintWith_PrettyJSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{Writer: &buf, Pretty: true}

	err := PrintWith(cfg, map[string]string{"hello": "world"})
	require.NoError(t, err)
	require.Contains(t, buf.String(), "\n  \"hello\": \"world\"\n")
}

type testRecoverableErr struct {
	msg    string
	code   string
	ctx    map[string]string
	action string
}

func (e *testRecoverableErr) Error() string              { return e.msg }
func (e *testRecoverableErr) ErrorCode() string          { return e.code }
func (e *testRecoverableErr) Context() map[string]string { return e.ctx }
func (e *testRecoverableErr) SuggestedAction() string    { return e.action }

func TestError_EnrichedRecoverableError(t *testing.T) {
	re := &testRecoverableErr{
		msg:    "key not found",
		code:   "KEY_NOT_FOUND",
		ctx:    map[string]string{"key": "counter"},
		action: "create the key first: kvd set --key counter --value 0",
	}

	resp := Error(re)
	require.False(t, resp.Success)
	require.Equal(t, "key not found", resp.Error)
	require.Equal(t, "KEY_NOT_FOUND", resp.ErrorCode)
	require.Equal(t, map[string]string{"key": "counter"}, resp.ErrorContext)
	require.Equal(t, "create the key first: kvd set --key counter --value 0", resp.SuggestedAction)

	var buf bytes.Buffer
	require.NoError(t, PrintWith(Config{Writer: &buf}, resp))
	out := buf.String()
	require.Contains(t, out, `"error_code":"KEY_NOT_FOUND"`)
	require.Contains(t, out, `"key":"counter"`)
	require.Contains(t, out, `"suggested_action"`)
}

func TestDefaultConfig(t *testing.T) {
	t.Run("default compact", func(t *testing.T) {
		t.Setenv("KVD_PRETTY_JSON", "")
		cfg := DefaultConfig()
		require.Equal(t, os.Stdout, cfg.Writer)
		require.False(t, cfg.Pretty)
	})

	for _, value := range []string{"1", "true"} {
		t.Run("pretty enabled with "+value, func(t *testing.T) {
			t.Setenv("KVD_PRETTY_JSON", value)
			cfg := DefaultConfig()
			require.True(t, cfg.Pretty)
		})
	}
}
