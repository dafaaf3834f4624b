package buffer_test

import (
	"fmt"

	"github.com/c360/circular-buffer/errors"
	"github.com/c360/circular-buffer/pkg/buffer"
)

func Example() {
	buf, err := buffer.New[int]()
	if err != nil {
		panic(err)
	}

	_ = buf.PushBack(1)
	_ = buf.PushBack(2)
	_ = buf.PushBack(3)
	_ = buf.PushFront(0)
	buf.PopBack()

	if _, err := buf.Insert(buf.Begin().Add(1), 9); err != nil {
		panic(err)
	}
	buf.Erase(buf.Begin())

	fmt.Println(buf.Slice())
	// Output: [9 1 2]
}

func ExampleBuffer_RBegin() {
	buf, _ := buffer.NewWithCapacity[string](4)
	for _, s := range []string{"a", "b", "c"} {
		_ = buf.PushBack(s)
	}

	for it := buf.RBegin(); !it.Equal(buf.REnd()); it = it.Next() {
		fmt.Print(it.Get())
	}
	fmt.Println()
	// Output: cba
}

func ExampleWithCopier() {
	limit := 2
	copier := func(s []byte) ([]byte, error) {
		if limit == 0 {
			return nil, fmt.Errorf("copy budget spent")
		}
		limit--
		return append([]byte(nil), s...), nil
	}

	buf, _ := buffer.New[[]byte](buffer.WithCopier[[]byte](copier))
	src := []byte("ab")
	_ = buf.PushBack(src)
	src[0] = 'x'

	_ = buf.PushBack([]byte("cd"))
	err := buf.PushBack([]byte("ef"))

	fmt.Println(string(buf.Front()), buf.Len(), errors.Is(err, errors.ErrCopyFailed))
	// Output: ab 2 true
}

func ExampleSwap() {
	a, _ := buffer.NewWithCapacity[int](4)
	b, _ := buffer.NewWithCapacity[int](16)
	_ = a.PushBack(1)

	buffer.Swap(a, b)
	fmt.Println(a.Len(), a.Cap(), b.Len(), b.Cap())
	// Output: 0 16 1 4
}
