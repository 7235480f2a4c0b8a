// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package dcmpcache

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/elliotnunn/resourceform/internal/resourcefork"
)

var _ resourcefork.Cache = (*Cache)(nil)

func TestMemory(t *testing.T) {
	c := New(100)
	defer c.Close()
	if _, ok := c.Get(1); ok {
		t.Error("hit in an empty cache")
	}
	for i := range uint64(3) {
		c.Put(i, []byte(fmt.Sprint("value", i)))
	}
	for i := range uint64(3) {
		got, ok := c.Get(i)
		if !ok || string(got) != fmt.Sprint("value", i) {
			t.Errorf("key %d: got %q, %v", i, got, ok)
		}
	}
}

func TestDisk(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(100, dir)
	if err != nil {
		t.Fatal(err)
	}
	c.Put(42, []byte("persisted"))
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}

	c, err = Open(100, dir)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	got, ok := c.Get(42)
	if !ok || !bytes.Equal(got, []byte("persisted")) {
		t.Errorf("got %q, %v", got, ok)
	}
	if _, ok := c.Get(43); ok {
		t.Error("hit on a key never stored")
	}
}

func TestConcurrent(t *testing.T) {
	c := New(1000)
	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 100 {
				key := uint64(g*100 + i)
				c.Put(key, []byte{byte(i)})
				if got, ok := c.Get(key); ok && (len(got) != 1 || got[0] != byte(i)) {
					t.Errorf("key %d: wrong value %v", key, got)
				}
			}
		}()
	}
	wg.Wait()
}
