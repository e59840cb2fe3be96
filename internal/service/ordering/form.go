package ordering

import (
	"strings"

	"github.com/samber/lo"

	"logistics-console/internal/domain"
	"logistics-console/internal/gateway/geo"
	"logistics-console/internal/service/listing"
)

// Form field keys, as rendered next to the inputs.
const (
	FieldPackageWeight      = "packageWeight"
	FieldPackageDimensions  = "packageDimensions"
	FieldPackageType        = "packageType"
	FieldOriginAddress      = "originAddress"
	FieldDestinationAddress = "destinationAddress"
	FieldRecipientName      = "recipientName"
	FieldRecipientPhone     = "recipientPhone"
)

// Form is the create-order screen input.
type Form struct {
	PackageWeight     string
	PackageDimensions string
	PackageType       string

	OriginDepartment string
	OriginCity       string
	OriginStreet     string

	DestinationDepartment string
	DestinationCity       string
	DestinationStreet     string

	RecipientName  string
	RecipientPhone string
}

// Validate checks the form against the location catalog. A missing
// department or city stops validation right there, origin first.
func (f Form) Validate(cat geo.Catalog) domain.FieldErrors {
	fe := domain.FieldErrors{}

	if !locationChosen(cat, f.OriginDepartment, f.OriginCity) {
		fe[FieldOriginAddress] = "Seleccione departamento y ciudad de origen"
		return fe
	}
	if !locationChosen(cat, f.DestinationDepartment, f.DestinationCity) {
		fe[FieldDestinationAddress] = "Seleccione departamento y ciudad de destino"
		return fe
	}

	if strings.TrimSpace(f.PackageWeight) == "" {
		fe[FieldPackageWeight] = "Ingrese el peso del paquete"
	}
	if strings.TrimSpace(f.PackageDimensions) == "" {
		fe[FieldPackageDimensions] = "Ingrese las dimensiones del paquete"
	}
	if !lo.SomeBy(listing.PackageTypes, func(t string) bool { return strings.EqualFold(t, f.PackageType) }) {
		fe[FieldPackageType] = "Seleccione un tipo"
	}
	if strings.TrimSpace(f.RecipientName) == "" {
		fe[FieldRecipientName] = "Ingrese el nombre del destinatario"
	}
	if msg := domain.ValidateStreetAddress(f.OriginStreet); msg != "" {
		fe[FieldOriginAddress] = msg
	}
	if msg := domain.ValidateStreetAddress(f.DestinationStreet); msg != "" {
		fe[FieldDestinationAddress] = msg
	}
	if msg := domain.ValidatePhone(f.RecipientPhone); msg != "" {
		fe[FieldRecipientPhone] = msg
	}
	return fe
}

func locationChosen(cat geo.Catalog, department, city string) bool {
	if department == "" || city == "" {
		return false
	}
	return cat.HasCity(department, city)
}

// NewOrder composes the backend payload for a validated form.
func (f Form) NewOrder(userID int64) domain.NewOrder {
	return domain.NewOrder{
		PackageWeight:      f.PackageWeight,
		PackageDimensions:  f.PackageDimensions,
		PackageType:        f.PackageType,
		OriginAddress:      domain.BuildFullAddress(f.OriginStreet, f.OriginCity, f.OriginDepartment),
		DestinationAddress: domain.BuildFullAddress(f.DestinationStreet, f.DestinationCity, f.DestinationDepartment),
		RecipientName:      f.RecipientName,
		RecipientPhone:     f.RecipientPhone,
		UserID:             userID,
	}
}
