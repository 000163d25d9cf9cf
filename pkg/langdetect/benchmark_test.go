package langdetect

import (
	"testing"
)

func BenchmarkDetectPackage(b *testing.B) {
	code := []byte(`(* ::Package:: *)

BeginPackage["Geometry` + "`" + `"]

area[r_] := Pi r^2

EndPackage[]`)
	b.ResetTimer()
	for range b.N {
		Detect(code)
	}
}

func BenchmarkDetectObjectiveC(b *testing.B) {
	code := []byte(`#import <Foundation/Foundation.h>

@interface Greeter : NSObject
- (void)greet;
@end`)
	b.ResetTimer()
	for range b.N {
		Detect(code)
	}
}

func BenchmarkDetectClassifier(b *testing.B) {
	code := []byte(`x = Table[i^2, {i, 10}];
Total[x]`)
	b.ResetTimer()
	for range b.N {
		Detect(code)
	}
}
