package levels

// SolidRects merges the solid tiles of every physics layer into as few
// rectangles as possible, greedily expanding each run first along the row
// and then downward.
func (l *Level) SolidRects() []Rect {
	if l == nil {
		return nil
	}
	var rects []Rect
	for i, layer := range l.Layers {
		if i < len(l.LayerMeta) && !l.LayerMeta[i].HasPhysics {
			continue
		}
		rects = append(rects, l.mergeLayer(layer)...)
	}
	return rects
}

func (l *Level) mergeLayer(layer []int) []Rect {
	if len(layer) != l.Width*l.Height {
		return nil
	}
	var rects []Rect
	processed := make([]bool, l.Width*l.Height)
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			idx := y*l.Width + x
			if processed[idx] {
				continue
			}
			if layer[idx] == 0 {
				processed[idx] = true
				continue
			}

			w := 1
			for x+w < l.Width {
				idx2 := y*l.Width + (x + w)
				if processed[idx2] || layer[idx2] == 0 {
					break
				}
				w++
			}

			h := 1
		heightLoop:
			for y+h < l.Height {
				for xi := x; xi < x+w; xi++ {
					idx2 := (y+h)*l.Width + xi
					if processed[idx2] || layer[idx2] == 0 {
						break heightLoop
					}
				}
				h++
			}

			top := l.TileRect(x, y)
			bottom := l.TileRect(x+w-1, y+h-1)
			rects = append(rects, Rect{X0: top.X0, Z0: bottom.Z0, X1: bottom.X1, Z1: top.Z1})

			for yy := y; yy < y+h; yy++ {
				for xx := x; xx < x+w; xx++ {
					processed[yy*l.Width+xx] = true
				}
			}
		}
	}
	return rects
}
