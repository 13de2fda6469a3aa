package dataset

import "insights-chat/internal/models"

var sampleRecords = []models.DataRecord{
	{Period: "Jan", Revenue: 45000, Customers: 120, Region: "North"},
	{Period: "Feb", Revenue: 52000, Customers: 140, Region: "North"},
	{Period: "Mar", Revenue: 49000, Customers: 130, Region: "North"},
	{Period: "Apr", Revenue: 60000, Customers: 160, Region: "North"},
	{Period: "May", Revenue: 55000, Customers: 150, Region: "North"},
	{Period: "Jan", Revenue: 38000, Customers: 100, Region: "South"},
	{Period: "Feb", Revenue: 42000, Customers: 110, Region: "South"},
	{Period: "Mar", Revenue: 41000, Customers: 105, Region: "South"},
	{Period: "Apr", Revenue: 45000, Customers: 115, Region: "South"},
	{Period: "May", Revenue: 44000, Customers: 112, Region: "South"},
	{Period: "Jan", Revenue: 51000, Customers: 130, Region: "East"},
	{Period: "Feb", Revenue: 53000, Customers: 135, Region: "East"},
	{Period: "Mar", Revenue: 56000, Customers: 140, Region: "East"},
	{Period: "Apr", Revenue: 62000, Customers: 150, Region: "East"},
	{Period: "May", Revenue: 59000, Customers: 145, Region: "East"},
	{Period: "Jan", Revenue: 42000, Customers: 110, Region: "West"},
	{Period: "Feb", Revenue: 43000, Customers: 115, Region: "West"},
	{Period: "Mar", Revenue: 45000, Customers: 120, Region: "West"},
	{Period: "Apr", Revenue: 48000, Customers: 125, Region: "West"},
	{Period: "May", Revenue: 47000, Customers: 122, Region: "West"},
}

// Sample returns the built-in demo dataset: four regions over Jan..May.
func Sample() *Dataset {
	return New(sampleRecords)
}
