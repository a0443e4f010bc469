package math

import (
	"testing"
)

func TestVec2Add(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{3, 4}
	got := a.Add(b)
	want := Vec2{4, 6}
	if got != want {
		t.Errorf("Vec2.Add() = %v, want %v", got, want)
	}
}

func TestVec2Length(t *testing.T) {
	v := Vec2{3, 4}
	if got := v.Length(); got != 5 {
		t.Errorf("Vec2.Length() = %v, want 5", got)
	}
	if got := v.LengthSq(); got != 25 {
		t.Errorf("Vec2.LengthSq() = %v, want 25", got)
	}
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Lerp(t *testing.T) {
	a := Vec3{0, 0, 0}
	b := Vec3{10, 20, 30}
	got := a.Lerp(b, 0.5)
	want := Vec3{5, 10, 15}
	if got != want {
		t.Errorf("Vec3.Lerp() = %v, want %v", got, want)
	}
}

func TestVec3NormalizeZero(t *testing.T) {
	if got := (Vec3{}).Normalize(); got != (Vec3{}) {
		t.Errorf("zero Normalize() = %v, want zero", got)
	}
}

func TestScalarHelpers(t *testing.T) {
	if got := Lerp(2, 4, 0.25); got != 2.5 {
		t.Errorf("Lerp() = %v, want 2.5", got)
	}
	if got := Clamp(0.8, -0.5, 0.5); got != 0.5 {
		t.Errorf("Clamp() = %v, want 0.5", got)
	}
	if got := Clamp(-0.8, -0.5, 0.5); got != -0.5 {
		t.Errorf("Clamp() = %v, want -0.5", got)
	}
}
