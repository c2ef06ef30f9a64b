package ipc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/freebsdkit/capkit/descriptor"
	"github.com/freebsdkit/capkit/ferr"
)

func TestFerrIsDescriptorTruncatedMatchesKindOnly(t *testing.T) {
	require.True(t, ferrIsDescriptorTruncated(ferr.New(ferr.DescriptorTruncated, "recvmsg", "")))
	require.False(t, ferrIsDescriptorTruncated(ferr.New(ferr.IO, "recvmsg", "")))
	require.False(t, ferrIsDescriptorTruncated(nil))
}

// TestRecvFramedRejectsOversizeDeclaredLength exercises the guard
// against a peer that declares an implausible frame length; it must
// fail closed before ever attempting the allocation.
func TestRecvFramedRejectsOversizeDeclaredLength(t *testing.T) {
	// An all-ones header declares a length far above the 1 MiB limit
	// passed to RecvFramed below. The header is sent alone over a stream
	// pair whose writing end is then closed, so no body ever follows it.
	var hdr [frameLengthPrefixSize]byte
	hdr[0], hdr[1], hdr[2], hdr[3] = 0xFF, 0xFF, 0xFF, 0xFF
	n := uint32(hdr[0])<<24 | uint32(hdr[1])<<16 | uint32(hdr[2])<<8 | uint32(hdr[3])
	require.Greater(t, n, uint32(1<<20))

	sa, sb, err := descriptor.SocketPair(descriptor.SockStream)
	require.NoError(t, err)
	defer sb.Close()
	require.NoError(t, descriptor.WriteAll(sa, hdr[:]))
	require.NoError(t, sa.Close())

	_, err = AdoptStreamEndpoint(sb).RecvFramed(1 << 20)
	var fe *ferr.Error
	require.ErrorAs(t, err, &fe)
	require.Equal(t, ferr.InvalidArgument, fe.Kind)
}

// TestEndpointPairExchangesOneMessageAtATime verifies that a seqpacket
// pair delivers exactly one message per Recv, with boundaries
// preserved, across repeated round trips.
func TestEndpointPairExchangesOneMessageAtATime(t *testing.T) {
	a, b, err := NewEndpointPair()
	require.NoError(t, err)
	defer a.Close()
	defer b.Close()

	const iterations = 8
	for i := 0; i < iterations; i++ {
		payload := []byte("ping")
		require.NoError(t, a.SendOnce(payload))

		got, err := b.Recv(64)
		require.NoError(t, err)
		require.Equal(t, payload, got)
	}
}

// TestEndpointPairPassesExactlyOneDescriptor sends a payload plus a
// single descriptor and checks the receiver gets back exactly one
// message and exactly one descriptor, across repeated iterations, per
// the exact-delivery-or-explicit-truncation contract RecvWithDescriptors
// documents.
func TestEndpointPairPassesExactlyOneDescriptor(t *testing.T) {
	a, b, err := NewEndpointPair()
	require.NoError(t, err)
	defer a.Close()
	defer b.Close()

	const iterations = 8
	for i := 0; i < iterations; i++ {
		carried, err := descriptor.NewSocket(descriptor.SockStream)
		require.NoError(t, err)

		payload := []byte("descriptor-bearing")
		require.NoError(t, a.SendWithDescriptors(payload, []int{carried.TakeRaw()}))

		res, err := b.RecvWithDescriptors(64, 1)
		require.NoError(t, err)
		require.Equal(t, payload, res.Payload)
		require.Len(t, res.Descriptors, 1)

		require.NoError(t, descriptor.AdoptFile(res.Descriptors[0]).Close())
	}
}

// TestEndpointPairReportsDescriptorTruncation checks that sending more
// descriptors than the receiver allows for is reported rather than
// silently dropped.
func TestEndpointPairReportsDescriptorTruncation(t *testing.T) {
	a, b, err := NewEndpointPair()
	require.NoError(t, err)
	defer a.Close()
	defer b.Close()

	first, err := descriptor.NewSocket(descriptor.SockStream)
	require.NoError(t, err)
	second, err := descriptor.NewSocket(descriptor.SockStream)
	require.NoError(t, err)

	payload := []byte("too-many-fds")
	require.NoError(t, a.SendWithDescriptors(payload, []int{first.TakeRaw(), second.TakeRaw()}))

	res, err := b.RecvWithDescriptors(64, 1)
	require.Error(t, err)
	require.True(t, ferrIsDescriptorTruncated(err))
	for _, fd := range res.Descriptors {
		require.NoError(t, descriptor.AdoptFile(fd).Close())
	}
}
