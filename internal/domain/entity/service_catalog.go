package entity

// RepairService is a fixed-price repair offered at the counter.
type RepairService struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Price       int64  `json:"price"`
	Time        string `json:"time"`
	Description string `json:"description"`
}

// ProblemTypes are the choices offered on the booking form.
var ProblemTypes = []string{
	"Screen Damage",
	"Battery Issue",
	"Software Problem",
	"Water Damage",
	"Camera Not Working",
	"Charging Issues",
	"Speaker/Mic Problem",
	"Other",
}

// MobileBrands are the brands the shop stocks and repairs.
var MobileBrands = []string{
	"Samsung", "Apple", "OnePlus", "Xiaomi", "Realme", "Vivo", "Oppo", "Motorola", "Nothing",
}

// RepairServices is the published repair price list.
var RepairServices = []RepairService{
	{ID: 1, Name: "Screen Repair", Icon: "Smartphone", Price: 1500, Time: "2-3 hours", Description: "Professional screen replacement for all brands"},
	{ID: 2, Name: "Battery Replacement", Icon: "Battery", Price: 800, Time: "1-2 hours", Description: "Genuine battery replacement with warranty"},
	{ID: 3, Name: "Software Update", Icon: "RefreshCw", Price: 500, Time: "30 mins", Description: "OS updates, bug fixes, and optimization"},
	{ID: 4, Name: "Water Damage Repair", Icon: "Droplets", Price: 2000, Time: "4-6 hours", Description: "Complete water damage assessment and repair"},
	{ID: 5, Name: "Camera Repair", Icon: "Camera", Price: 1200, Time: "2-3 hours", Description: "Front and rear camera module replacement"},
	{ID: 6, Name: "Charging Port Repair", Icon: "Plug", Price: 700, Time: "1 hour", Description: "Charging port cleaning and replacement"},
}
