package broken

//enumtag:derive
type Point struct {
	X, Y int
}
