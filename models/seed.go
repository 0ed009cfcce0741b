package models

// DefaultProducts is the OBRA catalog loaded into an empty database.
func DefaultProducts() []Product {
	return []Product{
		{Code: "22-FB03-EGC WHT 1.6m", Name: "L-Type Executive Glass Top Table", Category: "Executive Tables", Dimensions: "L160cm x W80cm x H75cm", Price: "21778", Description: "12mm tempered glass, melamine front panel, aluminium alloy frame."},
		{Code: "22-FB04-EGC BLK 1.8m", Name: "L-Type Executive Glass Top Table", Category: "Executive Tables", Dimensions: "L180cm x W90cm x H75cm", Price: "25888", Description: "12mm tempered black glass, melamine front panel, steel frame."},
		{Code: "22-FB01-EMD 2.0m", Name: "Executive Melamine Desk", Category: "Executive Tables", Dimensions: "L200cm x W100cm x H75cm", Price: "18500", Description: "High-quality melamine finish, with side cabinet, modern design."},
		{Code: "83-A12", Name: "High-Back Ergonomic Chair", Category: "Office Chairs", Dimensions: "-", Price: "8750", Description: "Mesh back, adjustable lumbar support, 3D armrests, synchronized mechanism.",
			Colors: []ProductColor{{Name: "Black", Value: "#1f1f1f"}, {Name: "Gray", Value: "#8a8a8a"}}},
		{Code: "83-A15", Name: "Mid-Back Mesh Chair", Category: "Office Chairs", Dimensions: "-", Price: "6500", Description: "Breathable mesh back, fixed armrests, tilt mechanism."},
		{Code: "83-C01", Name: "Visitor's Cantilever Chair", Category: "Office Chairs", Dimensions: "-", Price: "3200", Description: "Fabric upholstery, chrome cantilever base.",
			Colors: []ProductColor{{Name: "Red", Value: "#b22222"}, {Name: "Blue", Value: "#1e3a8a"}}},
		{Code: "OD-4P-WS 1.2m", Name: "4-Person Office Workstation", Category: "Workstations", Dimensions: "L240cm x W120cm x H105cm", Price: "15600", Description: "Melamine top, fabric panel dividers, shared legs."},
		{Code: "OD-6P-WS 1.4m", Name: "6-Person Office Workstation", Category: "Workstations", Dimensions: "L420cm x W120cm x H105cm", Price: "22800", Description: "Includes 6 tables with partitions, cable management ready."},
		{Code: "GC-803", Name: "3-Drawer Mobile Pedestal", Category: "Storage", Dimensions: "L40cm x W48cm x H60cm", Price: "4500", Description: "Melamine finish, centralized lock, on castors."},
		{Code: "SF-210-L", Name: "Low-Height Steel Filing Cabinet", Category: "Storage", Dimensions: "L90cm x W45cm x H102cm", Price: "7800", Description: "2 shelves, swinging glass doors, powder-coated steel."},
		{Code: "SF-210-F", Name: "Full-Height Steel Filing Cabinet", Category: "Storage", Dimensions: "L90cm x W45cm x H185cm", Price: "9500", Description: "4 shelves, swinging steel doors with lock."},
		{Code: "CT-GLS-100", Name: "Round Glass Conference Table", Category: "Conference Tables", Dimensions: "D100cm x H75cm", Price: "9800", Description: "10mm tempered glass top, chrome steel base, seats 4."},
		{Code: "CT-REC-240", Name: "Rectangular Conference Table", Category: "Conference Tables", Dimensions: "L240cm x W120cm x H75cm", Price: "16500", Description: "Melamine top with steel legs, includes center grommet for wiring, seats 8-10."},
		{Code: "SOFA-1S", Name: "Single Seater Sofa", Category: "Sofas & Lounges", Dimensions: "L85cm x W80cm x H78cm", Price: "7900", Description: "Fabric upholstery, solid wood frame, high-density foam."},
		{Code: "SOFA-3S", Name: "Three Seater Sofa", Category: "Sofas & Lounges", Dimensions: "L195cm x W80cm x H78cm", Price: "15500", Description: "Matching three-seater for reception or lounge areas."},
	}
}
