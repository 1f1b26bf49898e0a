package main

// @title Medication Adherence API
// @version 1.0
// @description Registro de medicaciones, tomas y reportes de adherencia.
// @BasePath /
