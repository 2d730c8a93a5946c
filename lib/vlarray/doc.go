// Package vlarray provides Store, an array-like container for elements of
// different lengths, e.g. strings or binary records.
//
// A Store keeps three array.Buffers: the element bytes (divided into fixed-size
// frames), the start frame of every element and the size of every element.
// An element of n bytes reserves 1 + n/frameSize frames, so an element whose
// size is an exact multiple of the frame size takes one extra frame.
//
// Removing an element moves the frames of all later elements down, the store
// never keeps holes. Inserts and removals first check indices and reserve
// capacity in all three buffers, so a failing call leaves the store unchanged.
//
// Example usage:
//
//	store, _ := vlarray.New(-1, -1, 16)
//	_ = store.Push([]byte("hello\x00"))
//	_ = store.Push([]byte("world\x00"))
//	fmt.Println(store.CString()) // helloworld
//
// Stores are not safe for concurrent use.
package vlarray
