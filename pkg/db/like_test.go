package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, EscapeLike("100%"))
	assert.Equal(t, `a\_b`, EscapeLike("a_b"))
	assert.Equal(t, `c:\\`, EscapeLike(`c:\`))
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, `%star\_wars%`, ContainsPattern("Star_Wars"))
	assert.Equal(t, "%%", ContainsPattern(""))
}
