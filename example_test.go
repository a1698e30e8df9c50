package mdadm_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/mdadm"
	"github.com/hupe1980/mdadm/device"
	"github.com/hupe1980/mdadm/jbod"
)

func ExampleController() {
	ctx := context.Background()

	ctrl, err := mdadm.New(device.New(), mdadm.WithCacheCapacity(16))
	if err != nil {
		panic(err)
	}
	defer ctrl.Close(ctx)

	if err := ctrl.Mount(ctx); err != nil {
		panic(err)
	}

	// The last byte of disk 0 and the first byte of disk 1.
	if _, err := ctrl.Write(ctx, jbod.DiskSize-1, 2, []byte{0xAA, 0xBB}); err != nil {
		panic(err)
	}

	buf := make([]byte, 4)
	if _, err := ctrl.Read(ctx, jbod.DiskSize-2, 4, buf); err != nil {
		panic(err)
	}
	fmt.Printf("% x\n", buf)
	// Output: 00 aa bb 00
}

func ExampleController_Read_validation() {
	ctx := context.Background()

	ctrl, _ := mdadm.New(device.New())
	_ = ctrl.Mount(ctx)

	_, err := ctrl.Read(ctx, jbod.MaxAddress-1, 2, make([]byte, 2))

	var re *mdadm.RangeError
	fmt.Println(errors.As(err, &re), errors.Is(err, mdadm.ErrInvalidArgument))
	// Output: true true
}

func ExampleBasicMetricsCollector() {
	ctx := context.Background()
	metrics := &mdadm.BasicMetricsCollector{}

	ctrl, _ := mdadm.New(device.New(),
		mdadm.WithCacheCapacity(4),
		mdadm.WithMetricsCollector(metrics),
	)
	_ = ctrl.Mount(ctx)

	buf := make([]byte, jbod.BlockSize)
	_, _ = ctrl.Read(ctx, 0, jbod.BlockSize, buf)
	_, _ = ctrl.Read(ctx, 0, jbod.BlockSize, buf)

	stats := metrics.GetStats()
	fmt.Printf("reads=%d lookups=%d hits=%d\n", stats.ReadCount, stats.CacheLookups, stats.CacheHits)
	// Output: reads=2 lookups=2 hits=1
}
