package composer

// FusionInstruction is the fixed text part appended after the two image parts
// of every generation request. The wording asks the model to repaint the
// first image in the style of the second.
const FusionInstruction = "Apply the artistic style of the second image to the first image. " +
	"Keep the subject, layout and composition of the first image intact while transferring " +
	"the color palette, brush work, texture and overall mood of the second image. " +
	"Respond with the resulting image."
