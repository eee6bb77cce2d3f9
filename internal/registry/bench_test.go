package registry

import (
	"fmt"
	"testing"

	"github.com/osse101/ItemLedger_Go/internal/domain"
)

// Compare runs with benchstat:
//   go test -run=^$ -bench=. -count=10 ./internal/registry > new.txt
//   benchstat old.txt new.txt

func BenchmarkMint(b *testing.B) {
	r := New(testAdmin)
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := r.Mint(testAdmin, testPlayer1, "bench"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkTransfer(b *testing.B) {
	r := New(testAdmin)
	id, err := r.Mint(testAdmin, testPlayer1, "bench")
	if err != nil {
		b.Fatal(err)
	}
	owners := [2]domain.Principal{testPlayer1, testPlayer2}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if err := r.Transfer(owners[i%2], id, owners[(i+1)%2]); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkItemsOwnedBy(b *testing.B) {
	for _, size := range []int{100, 10000} {
		b.Run(fmt.Sprintf("items=%d", size), func(b *testing.B) {
			r := New(testAdmin)
			for i := 0; i < size; i++ {
				owner := testPlayer1
				if i%4 == 0 {
					owner = testPlayer2
				}
				if _, err := r.Mint(testAdmin, owner, "bench"); err != nil {
					b.Fatal(err)
				}
			}
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				r.ItemsOwnedBy(testPlayer2)
			}
		})
	}
}

func BenchmarkEquipParallel(b *testing.B) {
	r := New(testAdmin)
	id, err := r.Mint(testAdmin, testPlayer1, "bench")
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = r.Equip(testPlayer1, id)
		}
	})
}
