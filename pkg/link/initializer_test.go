package link

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testConfig = Config{Port: "/dev/ttyTEST", BaudRate: 115200, ReadTimeout: time.Second}

func TestInitializeSucceedsOnFirstReady(t *testing.T) {
	testCases := []struct {
		name    string
		replies []string
		writes  string
	}{
		{"first attempt", []string{"System Ready\r\n"}, "H"},
		{"second attempt", []string{"", "Ready\n"}, "HH"},
		{"third attempt", []string{"garbage\n", "", "Ready\n", "Ready\n"}, "HHH"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tr := &fakeTransport{replies: tc.replies}
			s, err := Initialize(context.Background(), openerOf(tr), testConfig)
			require.NoError(t, err)
			require.True(t, s.Online())
			require.Equal(t, tc.writes, string(tr.written))
			require.Zero(t, tr.closes)
		})
	}
}

func TestInitializeExhausted(t *testing.T) {
	tr := &fakeTransport{replies: []string{"", "noise\n", "booting\n", "Ready\n"}}
	s, err := Initialize(context.Background(), openerOf(tr), testConfig)
	require.Nil(t, s)
	require.True(t, errors.Is(err, ErrHandshakeFailed))
	require.Equal(t, "HHH", string(tr.written))
	require.Equal(t, 1, tr.closes)
}

func TestInitializeResetsBeforeFirstPing(t *testing.T) {
	tr := &fakeTransport{replies: []string{"Ready\n"}}
	_, err := Initialize(context.Background(), openerOf(tr), testConfig)
	require.NoError(t, err)
	require.Equal(t, []string{"reset", "write:H", "read"}, tr.events)
	require.Equal(t, []time.Duration{time.Second}, tr.timeouts)
}

func TestInitializeDefaultsReadTimeout(t *testing.T) {
	tr := &fakeTransport{replies: []string{"Ready\n"}}
	s, err := Initialize(context.Background(), openerOf(tr), Config{Port: "p", BaudRate: 9600})
	require.NoError(t, err)
	require.Equal(t, DefaultReadTimeout, s.Config.ReadTimeout)
}

func TestInitializeOpenFailure(t *testing.T) {
	opener := OpenFunc(func(Config) (Transport, error) {
		return nil, errUnplugged
	})
	s, err := Initialize(context.Background(), opener, testConfig)
	require.Nil(t, s)
	require.True(t, errors.Is(err, ErrConnectionFailed))
	require.True(t, errors.Is(err, errUnplugged))
	var connErr *ConnectionError
	require.True(t, errors.As(err, &connErr))
	require.Equal(t, testConfig.Port, connErr.Port)
}

func TestInitializeTransportFailureCloses(t *testing.T) {
	testCases := []struct {
		name string
		tr   *fakeTransport
	}{
		{"write", &fakeTransport{writeErr: errUnplugged}},
		{"read", &fakeTransport{readErr: errUnplugged}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := Initialize(context.Background(), openerOf(tc.tr), testConfig)
			require.Nil(t, s)
			require.True(t, errors.Is(err, ErrConnectionLost))
			require.True(t, errors.Is(err, errUnplugged))
			require.Equal(t, 1, tc.tr.closes)
		})
	}
}

func TestInitializeNotifiesAttempts(t *testing.T) {
	tr := &fakeTransport{replies: []string{"", "Ready\n"}}
	var attempts []HandshakeAttempt
	_, err := NewInitializer(openerOf(tr)).
		WithNotifier(AttemptDoneFunc(func(a HandshakeAttempt) {
			attempts = append(attempts, a)
		})).
		Initialize(context.Background(), testConfig)
	require.NoError(t, err)
	require.Equal(t, []HandshakeAttempt{
		{Index: 0, Response: ""},
		{Index: 1, Response: "Ready", OK: true},
	}, attempts)
}

func TestInitializeReportsOpened(t *testing.T) {
	tr := &fakeTransport{replies: []string{"Ready\n"}}
	var opened []string
	initializer := NewInitializer(openerOf(tr))
	initializer.Opened = func(conf Config) {
		opened = append(opened, conf.Port)
		require.Empty(t, tr.events)
	}
	_, err := initializer.Initialize(context.Background(), testConfig)
	require.NoError(t, err)
	require.Equal(t, []string{testConfig.Port}, opened)
}

func TestInitializeInterrupted(t *testing.T) {
	testCases := []struct {
		name    string
		replies []string
		writes  string
	}{
		{"silent peer", nil, "H"},
		{"ready arrives with the interrupt", []string{"Ready\n"}, "H"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			tr := &fakeTransport{replies: tc.replies, onRead: cancel}
			s, err := Initialize(ctx, openerOf(tr), testConfig)
			require.Nil(t, s)
			require.True(t, errors.Is(err, ErrInterrupted))
			require.True(t, errors.Is(err, context.Canceled))
			require.Equal(t, tc.writes, string(tr.written))
			require.Equal(t, 1, tr.closes)
		})
	}
}

func TestInitializeCanceledBeforeHandshake(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tr := &fakeTransport{replies: []string{"Ready\n"}}
	s, err := Initialize(ctx, openerOf(tr), testConfig)
	require.Nil(t, s)
	require.True(t, errors.Is(err, ErrInterrupted))
	require.Empty(t, tr.written)
	require.Equal(t, []string{"reset", "close"}, tr.events)
}
