package services

import (
	"time"

	"sales-dashboard/internal/models"
)

func day(d int) time.Time {
	return time.Date(2019, time.January, d, 0, 0, 0, 0, time.UTC)
}

func sampleRecords() []models.SalesRecord {
	return []models.SalesRecord{
		{Row: 0, InvoiceID: "750-67-8428", City: "Yangon", CustomerType: "Member", Gender: "Female", ProductLine: "Health and beauty", Date: day(5), Hour: 13, Total: 548.97, Rating: 9.1, GrossIncome: 26.14},
		{Row: 1, InvoiceID: "226-31-3081", City: "Naypyitaw", CustomerType: "Normal", Gender: "Female", ProductLine: "Electronic accessories", Date: day(8), Hour: 10, Total: 80.22, Rating: 9.6, GrossIncome: 3.82},
		{Row: 2, InvoiceID: "631-41-3108", City: "Yangon", CustomerType: "Normal", Gender: "Male", ProductLine: "Home and lifestyle", Date: day(3), Hour: 13, Total: 340.53, Rating: 7.4, GrossIncome: 16.22},
		{Row: 3, InvoiceID: "123-19-1176", City: "Yangon", CustomerType: "Member", Gender: "Male", ProductLine: "Health and beauty", Date: day(27), Hour: 20, Total: 489.05, Rating: 8.4, GrossIncome: 23.29},
		{Row: 4, InvoiceID: "373-73-7910", City: "Mandalay", CustomerType: "Normal", Gender: "Male", ProductLine: "Sports and travel", Date: day(8), Hour: 10, Total: 634.38, Rating: 5.3, GrossIncome: 30.21},
	}
}

func fullSelection() models.FilterSelection {
	return models.FilterSelection{
		StartDate:     day(1),
		EndDate:       day(31),
		Cities:        []string{"Yangon", "Naypyitaw", "Mandalay"},
		CustomerTypes: []string{"Member", "Normal"},
		Genders:       []string{"Female", "Male"},
	}
}
