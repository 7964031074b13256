package sharedref_test

import (
	"context"
	"fmt"

	"github.com/LerianStudio/lib-sharedref/sharedref"
)

type widget struct {
	val int
}

// printVal borrows the group for the duration of the call by sharing into a
// locally owned handle.
func printVal(ref *sharedref.Ref[widget]) {
	shared := ref.Share()
	defer shared.Release()

	fmt.Println("the value is:", shared.Value().val)
}

func Example() {
	ref, err := sharedref.NewWithFinalizer(&widget{}, func(_ *widget) {
		fmt.Println("finalizing widget")
	})
	if err != nil {
		fmt.Println("failed to create group:", err)

		return
	}
	defer ref.Release()

	ref.Value().val = 100

	printVal(ref)

	fmt.Println("returned from printVal")

	// Output:
	// the value is: 100
	// returned from printVal
	// finalizing widget
}

func ExampleRef_Share() {
	ref, err := sharedref.New(&widget{val: 7})
	if err != nil {
		fmt.Println("failed to create group:", err)

		return
	}
	defer ref.Release()

	shared := ref.Share()
	fmt.Println("owners after share:", shared.UseCount())

	shared.Release()
	fmt.Println("owners after release:", ref.UseCount())

	// Output:
	// owners after share: 2
	// owners after release: 1
}

func ExampleScope() {
	ctx := context.Background()

	scope := sharedref.NewScope()
	defer scope.Close(ctx)

	first, err := sharedref.NewWithFinalizer(&widget{val: 1}, func(w *widget) {
		fmt.Println("finalizing widget", w.val)
	})
	if err != nil {
		fmt.Println("failed to create group:", err)

		return
	}
	scope.Own(first)

	second, err := sharedref.NewWithFinalizer(&widget{val: 2}, func(w *widget) {
		fmt.Println("finalizing widget", w.val)
	})
	if err != nil {
		fmt.Println("failed to create group:", err)

		return
	}
	scope.Own(second)

	fmt.Println("owned handles:", scope.Owned())

	// Output:
	// owned handles: 2
	// finalizing widget 2
	// finalizing widget 1
}
