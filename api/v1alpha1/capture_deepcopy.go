package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
)

// DeepCopyInto copies the receiver, writing into out. in must be non-nil.
func (in *DeviceCatalog) DeepCopyInto(out *DeviceCatalog) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Spec.DeepCopyInto(&out.Spec)
	in.Status.DeepCopyInto(&out.Status)
}

// DeepCopy copies the receiver, creating a new DeviceCatalog.
func (in *DeviceCatalog) DeepCopy() *DeviceCatalog {
	if in == nil {
		return nil
	}
	out := new(DeviceCatalog)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject copies the receiver, creating a new runtime.Object.
func (in *DeviceCatalog) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

// DeepCopyInto copies the receiver, writing into out. in must be non-nil.
func (in *DeviceCatalogList) DeepCopyInto(out *DeviceCatalogList) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ListMeta.DeepCopyInto(&out.ListMeta)
	if in.Items != nil {
		out.Items = make([]DeviceCatalog, len(in.Items))
		for i := range in.Items {
			in.Items[i].DeepCopyInto(&out.Items[i])
		}
	}
}

// DeepCopy copies the receiver, creating a new DeviceCatalogList.
func (in *DeviceCatalogList) DeepCopy() *DeviceCatalogList {
	if in == nil {
		return nil
	}
	out := new(DeviceCatalogList)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject copies the receiver, creating a new runtime.Object.
func (in *DeviceCatalogList) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

// DeepCopyInto copies the receiver, writing into out. in must be non-nil.
func (in *DeviceCatalogSpec) DeepCopyInto(out *DeviceCatalogSpec) {
	*out = *in
	if in.Parameters != nil {
		out.Parameters = make([]CapabilityEntry, len(in.Parameters))
		for i := range in.Parameters {
			in.Parameters[i].DeepCopyInto(&out.Parameters[i])
		}
	}
}

// DeepCopyInto copies the receiver, writing into out. in must be non-nil.
func (in *CapabilityEntry) DeepCopyInto(out *CapabilityEntry) {
	*out = *in
	if in.Values != nil {
		out.Values = make([]string, len(in.Values))
		copy(out.Values, in.Values)
	}
	if in.Range != nil {
		out.Range = new(RangeSpec)
		*out.Range = *in.Range
	}
	if in.Flag != nil {
		out.Flag = new(bool)
		*out.Flag = *in.Flag
	}
}

// DeepCopyInto copies the receiver, writing into out. in must be non-nil.
func (in *DeviceCatalogStatus) DeepCopyInto(out *DeviceCatalogStatus) {
	*out = *in
	out.Conditions = copyConditions(in.Conditions)
}

// DeepCopyInto copies the receiver, writing into out. in must be non-nil.
func (in *CaptureProfile) DeepCopyInto(out *CaptureProfile) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Spec.DeepCopyInto(&out.Spec)
	in.Status.DeepCopyInto(&out.Status)
}

// DeepCopy copies the receiver, creating a new CaptureProfile.
func (in *CaptureProfile) DeepCopy() *CaptureProfile {
	if in == nil {
		return nil
	}
	out := new(CaptureProfile)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject copies the receiver, creating a new runtime.Object.
func (in *CaptureProfile) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

// DeepCopyInto copies the receiver, writing into out. in must be non-nil.
func (in *CaptureProfileList) DeepCopyInto(out *CaptureProfileList) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ListMeta.DeepCopyInto(&out.ListMeta)
	if in.Items != nil {
		out.Items = make([]CaptureProfile, len(in.Items))
		for i := range in.Items {
			in.Items[i].DeepCopyInto(&out.Items[i])
		}
	}
}

// DeepCopy copies the receiver, creating a new CaptureProfileList.
func (in *CaptureProfileList) DeepCopy() *CaptureProfileList {
	if in == nil {
		return nil
	}
	out := new(CaptureProfileList)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject copies the receiver, creating a new runtime.Object.
func (in *CaptureProfileList) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

// DeepCopyInto copies the receiver, writing into out. in must be non-nil.
func (in *CaptureProfileSpec) DeepCopyInto(out *CaptureProfileSpec) {
	*out = *in
	in.Policy.DeepCopyInto(&out.Policy)
}

// DeepCopyInto copies the receiver, writing into out. in must be non-nil.
func (in *CapturePolicy) DeepCopyInto(out *CapturePolicy) {
	*out = *in
	if in.MaxFPS != nil {
		out.MaxFPS = new(int32)
		*out.MaxFPS = *in.MaxFPS
	}
	if in.MaxFPSDiff != nil {
		out.MaxFPSDiff = new(int32)
		*out.MaxFPSDiff = *in.MaxFPSDiff
	}
	if in.Quirks != nil {
		out.Quirks = make([]string, len(in.Quirks))
		copy(out.Quirks, in.Quirks)
	}
}

// DeepCopyInto copies the receiver, writing into out. in must be non-nil.
func (in *CaptureProfileStatus) DeepCopyInto(out *CaptureProfileStatus) {
	*out = *in
	if in.LastResolvedTime != nil {
		out.LastResolvedTime = in.LastResolvedTime.DeepCopy()
	}
	if in.Settings != nil {
		out.Settings = make([]SettingStatus, len(in.Settings))
		copy(out.Settings, in.Settings)
	}
	if in.Unresolved != nil {
		out.Unresolved = make([]string, len(in.Unresolved))
		copy(out.Unresolved, in.Unresolved)
	}
	out.Conditions = copyConditions(in.Conditions)
}

func copyConditions(in []metav1.Condition) []metav1.Condition {
	if in == nil {
		return nil
	}
	out := make([]metav1.Condition, len(in))
	for i := range in {
		in[i].DeepCopyInto(&out[i])
	}
	return out
}
