package fdio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestUnix_DupAndClose(t *testing.T) {
	fd, err := unix.MemfdCreate("fdio-test", unix.MFD_CLOEXEC)
	require.NoError(t, err)
	defer unix.Close(fd)

	before, err := CountOpen()
	require.NoError(t, err)

	u := New()
	dup, err := u.Dup(fd)
	require.NoError(t, err)
	assert.NotEqual(t, fd, dup)

	flags, err := unix.FcntlInt(uintptr(dup), unix.F_GETFD, 0)
	require.NoError(t, err)
	assert.NotZero(t, flags&unix.FD_CLOEXEC)

	var a, b unix.Stat_t
	require.NoError(t, unix.Fstat(fd, &a))
	require.NoError(t, unix.Fstat(dup, &b))
	assert.Equal(t, a.Ino, b.Ino)

	after, err := CountOpen()
	require.NoError(t, err)
	assert.Equal(t, before+1, after)

	require.NoError(t, u.Close(dup))
	after, err = CountOpen()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUnix_DupInvalid(t *testing.T) {
	_, err := New().Dup(-1)
	assert.Error(t, err)
}
