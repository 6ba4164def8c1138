package valuekind

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatParseRoundTrip(t *testing.T) {
	assert.Equal(t, "hello", FormatString("hello"))

	assert.Equal(t, "42", FormatInt32(42))
	assert.Equal(t, int32(42), ParseInt32("42", -1))

	assert.Equal(t, "-9000000000", FormatInt64(-9000000000))
	assert.Equal(t, int64(-9000000000), ParseInt64("-9000000000", 0))

	assert.Equal(t, "3.5", FormatFloat32(3.5))
	assert.Equal(t, float32(3.5), ParseFloat32("3.5", 0))

	assert.Equal(t, "true", FormatBool(true))
	assert.Equal(t, "false", FormatBool(false))
	assert.Equal(t, true, ParseBool("true", false))
	assert.Equal(t, false, ParseBool("false", true))
}

func TestParseFallsBackToDefaultOnBadText(t *testing.T) {
	assert.Equal(t, int32(7), ParseInt32("not-a-number", 7))
	assert.Equal(t, int64(7), ParseInt64("not-a-number", 7))
	assert.Equal(t, float32(7), ParseFloat32("not-a-number", 7))
	assert.Equal(t, true, ParseBool("not-a-bool", true))
	assert.Equal(t, false, ParseBool("not-a-bool", false))
}

func TestParseBoolCaseInsensitive(t *testing.T) {
	assert.Equal(t, true, ParseBool("TRUE", false))
	assert.Equal(t, true, ParseBool("True", false))
	assert.Equal(t, true, ParseBool("tRue", false))
	assert.Equal(t, false, ParseBool("FALSE", true))
	assert.Equal(t, false, ParseBool("fAlSe", true))
}
