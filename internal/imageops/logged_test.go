package imageops

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/youruser/mockupapp/internal/domain"
)

type stubOps struct {
	Ops
	blurErr error
}

func (stubOps) Dimensions(context.Context, string) (domain.Size, error) {
	return domain.Size{Width: 3, Height: 2}, nil
}

func (s stubOps) Blur(context.Context, BlurRequest) error { return s.blurErr }

func TestWithLogging(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	ops := WithLogging(stubOps{blurErr: errors.New("no memory")}, log)

	size, err := ops.Dimensions(context.Background(), "a.png")
	require.NoError(t, err)
	require.Equal(t, domain.Size{Width: 3, Height: 2}, size)
	entry := hook.LastEntry()
	require.Equal(t, logrus.DebugLevel, entry.Level)
	require.Equal(t, "dimensions", entry.Data["op"])
	require.Equal(t, "a.png", entry.Data["out"])

	err = ops.Blur(context.Background(), BlurRequest{In: "a.png", Sigma: 2, Out: "b.png"})
	require.EqualError(t, err, "no memory")
	entry = hook.LastEntry()
	require.Equal(t, logrus.WarnLevel, entry.Level)
	require.Equal(t, "blur", entry.Data["op"])
	require.Equal(t, "b.png", entry.Data["out"])
}

func TestWithLoggingNilLogger(t *testing.T) {
	s := stubOps{}
	require.Equal(t, Ops(s), WithLogging(s, nil))
}
