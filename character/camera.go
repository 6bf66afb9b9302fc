package character

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/wallclimb/common"
	"github.com/milk9111/wallclimb/geom"
	"github.com/milk9111/wallclimb/probe"
)

// CameraRig is a spring arm behind the character following the control
// rotation.
type CameraRig struct {
	BoomLength             float64
	BaseTurnRate           float64
	BaseLookUpRate         float64
	MinPitch               float64
	MaxPitch               float64
	UsePawnControlRotation bool
	// ProbeSize is the half extent of the box swept along the boom when
	// CollisionTest is set.
	ProbeSize     float64
	CollisionTest bool
}

func DefaultCameraRig() CameraRig {
	return CameraRig{
		BoomLength:             300,
		BaseTurnRate:           45,
		BaseLookUpRate:         45,
		MinPitch:               -89,
		MaxPitch:               89,
		UsePawnControlRotation: true,
		ProbeSize:              12,
		CollisionTest:          true,
	}
}

func (r CameraRig) clampPitch(p float64) float64 {
	return common.Clamp(p, r.MinPitch, r.MaxPitch)
}

// boomEnd places the camera behind pivot along rot. The arm pulls in when the
// probe hits something.
func (r CameraRig) boomEnd(p *probe.Probe, pivot mgl64.Vec3, rot geom.Rotator) mgl64.Vec3 {
	end := pivot.Sub(rot.Forward().Mul(r.BoomLength))
	if !r.CollisionTest || p == nil {
		return end
	}
	ext := r.ProbeSize
	hit := p.Sweep(pivot, end, probe.Box(mgl64.Vec3{ext, ext, ext}))
	if hit.Blocking {
		return hit.Location
	}
	return end
}
