package shapes

//enumtag:derive
type Shape interface {
	isShape()
	Tag() ShapeTag
}

type Circle struct{ Radius float64 }

type Square struct{ Side float64 }

func (Circle) isShape() {}
func (Square) isShape() {}
