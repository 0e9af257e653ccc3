package relay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/dep2p/go-lanlink/config"
	"github.com/dep2p/go-lanlink/internal/core/transport/mem"
	pkgif "github.com/dep2p/go-lanlink/pkg/interfaces"
)

// TestModule 测试 Fx 模块装配
func TestModule(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Admission.Countdown = config.Duration(3 * time.Second)

	tr, err := mem.New(mem.NewNetwork(), nil)
	require.NoError(t, err)
	defer tr.Close()

	var (
		r       *Relay
		evictor pkgif.Evictor
	)
	app := fxtest.New(t,
		fx.Supply(cfg),
		fx.Provide(func() pkgif.Transport { return tr }),
		Module(),
		fx.Populate(&r, &evictor),
	)
	app.RequireStart()

	require.NotNil(t, r)
	assert.Same(t, r, evictor)
	assert.Equal(t, 3*time.Second, r.countdown)

	app.RequireStop()
	assert.ErrorIs(t, r.NotifyAndDisconnect("p", "full", time.Second), ErrClosed)

	t.Log("✅ 模块装配正确")
}
